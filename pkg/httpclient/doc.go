// Package httpclient is the traced outbound HTTP client.
//
// Each request runs inside an outbound-call span (name "http.call") with
// the request method, URL, and peer host as attributes, and carries W3C
// trace-context headers so the receiving service continues the trace.
//
//	client := httpclient.NewClient(httpclient.Config{Timeout: 5 * time.Second}, runner)
//	body, err := client.Get(ctx, "https://api.example.com/v1/users")
package httpclient
