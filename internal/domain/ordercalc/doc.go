// Package ordercalc holds the pure computation rules shared by every
// order-like document in the system: canonical measuring units, fulfilment
// progress, derived display status, and the GST financial breakdown.
//
// Every function in this package is total and side-effect free. Malformed or
// missing numeric inputs are coerced to safe defaults instead of returning
// errors, because callers must always be able to render something. The only
// time dependency (today's date for overdue detection) is an explicit
// parameter.
package ordercalc
