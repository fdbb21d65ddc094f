// Command mailingtracker generates random activity on the mailing example domain and checks
// that every routed event ended up in the store.
//
// Operations run concurrently through Repository.Update, so concurrency conflicts and their retries
// are part of every run. The stream engine is selected the same way as for planetexpress (see shell/config).
//
//	mailingtracker -count 5000 -workers 8 -rate 200
package main
