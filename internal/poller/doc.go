// Package poller periodically samples the gateway gas estimate over REST
// and forwards readings to a handler, usually the gas writer.
package poller
