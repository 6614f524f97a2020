// Package database provides connection pool management for PostgreSQL.
//
// The collector keeps two append-only tables:
//   - ticks: raw real-time frames per trading pair
//   - gas_readings: periodic gas estimate samples
package database
