// Package company is the Planet Express example domain: a Company aggregate root owning a list of Employee entities.
//
// The company and every employee have their own event stream. Hiring is recorded on the company stream,
// promotions on the promoted employee's stream.
package company
