// Package files groups file-related functionality into sub-packages:
//   - filesystem: filesystem abstraction interfaces and implementations (OS and in-memory)
//   - scanner: recursive document discovery with version classification
package files
