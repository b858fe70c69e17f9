// Package pools provides object pooling for reducing GC pressure during
// table builds and cracks, where row and chain buffers churn constantly
// on the hot path:
//
//   - BytePool: Size-class based byte slice pooling
//   - BufferBuilder: Efficient buffer construction with pooling
package pools
