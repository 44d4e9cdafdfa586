// Package rrlog implements a typed, self-describing binary logging codec.
//
// An application declares named channels of strongly typed values; the writer
// emits each channel's schema once and then compact per-value payloads.
// Readers can reconstruct channel names, schemas and values from the stream
// alone, with no out-of-band metadata.
//
// # Wire format
//
// All integers and floats are big-endian; strings are an i32 byte length
// followed by UTF-8 bytes.
//
//	header: 'R' 'R' | u16 version (currently 1)
//	entry:  i32 kind | body
//	  kind 0 (schema):  i32 nameLen | name | descriptor
//	  kind 1 (message): i32 channelIndex | payload
//
// Schema descriptors start with an i32 tag (see Tag); records and enums
// append their field or constant names with nested descriptors. Channel
// indices are dense, 0-based, in registration order, and stable for the
// writer's lifetime.
//
// # Usage
//
//	sink, _ := rrlog.NewFileSink("run.rr")
//	w, _ := rrlog.NewWriter(sink)
//	defer w.Close()
//
//	// Explicit schema.
//	ints, _ := w.AddChannel("ints", rrlog.Int32)
//	_ = ints.Put(int32(42))
//
//	// Derived from a struct type.
//	type Pose struct{ X, Y float64 }
//	poses, _ := rrlog.AddChan[Pose](w, "pose")
//	_ = poses.Put(Pose{X: 1, Y: 2})
//
//	// Dynamic path: schema inferred from the first value's type.
//	_ = w.Write("battery", 11.4)
//
// Every entry is assembled in an exact-sized buffer and written whole, so a
// schema whose size accounting is wrong is caught before any byte reaches
// the sink.
package rrlog
