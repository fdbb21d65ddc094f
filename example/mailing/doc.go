// Package mailing is a mailing tracker example domain with three levels of nesting:
// an Account aggregate root owns Campaigns, and each Campaign owns the Mailings it sent.
//
// A Mailing records engagement (opens, clicks, shares) and tracks the distinct addresses that engaged with it.
package mailing
