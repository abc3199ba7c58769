// Package testing provides a conformance suite for disk.IDisk implementations.
//
// Usage:
//
//	func TestMyDisk(t *testing.T) {
//		disktesting.RunDiskTests(t, "MyDisk", func(t *testing.T) disk.IDisk {
//			return newMyDisk(t.TempDir())
//		})
//	}
//
// Every factory call must return an empty disk whose namespaces resolve below
// a fresh directory.
package testing
