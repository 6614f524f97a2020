// Package api provides the Aptos Network gateway client for REST communication.
//
// REST endpoints:
//   - POST /accounts               create a custodial account
//   - GET  /accounts/{addr}/balance
//   - POST /transactions           submit a transfer for custodial signing
//   - GET  /gas-estimate
//   - POST /contract/call          invoke a Move contract method
//
// Status 200 is the only success; any other status surfaces the raw
// response body through *APIError.
package api
