// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives supporting the RPC engine: a cooperative
// worker pool (Executor) for tasks spawned off the inbound dispatcher,
// and thin CPU/NUMA pinning helpers for the executor's workers.
package concurrency
