// File: pool/doc.go
// Package pool
// Author: momentics <momentics@gmail.com>
//
// NUMA-segmented buffer pooling: reusable byte buffers keyed by NUMA
// node, handed out via api.BufferPool through Server.BufferPool and
// Client.BufferPool for application code. The wire codec and the
// outbound sender do not use these pools; they allocate each frame.
package pool
