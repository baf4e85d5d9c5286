// Package logwarden validates web-server access logs, extracts structured
// records, and reports per-client traffic, the most requested endpoint, and
// clients with suspicious numbers of failed logins.
//
// Quick start:
//
//	a := logwarden.New(logwarden.WithThreshold(10))
//	report, err := a.Analyze("access.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range report.Suspicious {
//	    fmt.Println(s.ClientAddress, s.FailedLoginCount)
//	}
//
// An Analyzer holds no per-run state and is safe for concurrent use; every
// Analyze call builds its own record store.
package logwarden
