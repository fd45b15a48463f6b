// Package serialization saves and loads flow parameters in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object]
//	  [Tensor data: raw little-endian bytes]
//
// The header maps every tensor name to its dtype ("F32" or "F64"), shape and
// [start, end) byte offsets into the data section. The optional
// "__metadata__" entry holds string key/value pairs; the CLI stores the flow
// config there.
//
// Example usage:
//
//	// Save
//	err := serialization.WriteSafeTensors("model.safetensors", model.StateDict(), map[string]string{
//	    "format": "realnvp",
//	})
//
//	// Load
//	stateDict, metadata, err := serialization.ReadSafeTensors("model.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = model.LoadStateDict(stateDict)
//
// Readers validate offsets, sizes and names before touching tensor data, so
// truncated or malicious files fail with an error instead of a panic.
package serialization
