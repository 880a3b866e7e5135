//go:build openvino

package ov

// Native backend over the engine's flat C ABI, selected with the "openvino"
// build tag. This file and ie_bridge.h/ie_bridge.cc are the only places raw
// native pointers exist; everything above works in handles and slices.
//
// The C surface covers the whole lifecycle except batch configuration, which
// only exists on the C++ object API. That one call goes through the
// arb_network_set_batch shim, which holds the single documented handle
// reinterpretation in the repository (see ie_bridge.cc).

/*
#cgo LDFLAGS: -linference_engine_c_api -linference_engine -lstdc++
#cgo CXXFLAGS: -std=c++11
#include <stdlib.h>
#include "ie_bridge.h"
*/
import "C"

import "unsafe"

type (
	coreHandle    = *C.ie_core_t
	networkHandle = *C.ie_network_t
	execHandle    = *C.ie_executable_network_t
	requestHandle = *C.ie_infer_request_t
	blobHandle    = *C.ie_blob_t
)

func bridgeCoreCreate(pluginsPath string) (coreHandle, StatusCode) {
	cPath := C.CString(pluginsPath)
	defer C.free(unsafe.Pointer(cPath))
	var core *C.ie_core_t
	st := C.ie_core_create(cPath, &core)
	return core, StatusCode(st)
}

func bridgeCoreFree(h coreHandle) {
	C.ie_core_free(&h)
}

func bridgeReadNetwork(c coreHandle, xmlPath, binPath string) (networkHandle, StatusCode) {
	cXML := C.CString(xmlPath)
	defer C.free(unsafe.Pointer(cXML))
	cBin := C.CString(binPath)
	defer C.free(unsafe.Pointer(cBin))
	var net *C.ie_network_t
	st := C.ie_core_read_network(c, cXML, cBin, &net)
	return net, StatusCode(st)
}

func bridgeNetworkFree(h networkHandle) {
	C.ie_network_free(&h)
}

func bridgeNetworkInputCount(n networkHandle) (int, StatusCode) {
	var count C.size_t
	st := C.ie_network_get_inputs_number(n, &count)
	return int(count), StatusCode(st)
}

func bridgeNetworkOutputCount(n networkHandle) (int, StatusCode) {
	var count C.size_t
	st := C.ie_network_get_outputs_number(n, &count)
	return int(count), StatusCode(st)
}

func bridgeNetworkInputName(n networkHandle, index int) (string, StatusCode) {
	var cName *C.char
	st := C.ie_network_get_input_name(n, C.size_t(index), &cName)
	if st != C.OK {
		return "", StatusCode(st)
	}
	name := C.GoString(cName)
	C.ie_network_name_free(&cName)
	return name, StatusOK
}

func bridgeNetworkOutputName(n networkHandle, index int) (string, StatusCode) {
	var cName *C.char
	st := C.ie_network_get_output_name(n, C.size_t(index), &cName)
	if st != C.OK {
		return "", StatusCode(st)
	}
	name := C.GoString(cName)
	C.ie_network_name_free(&cName)
	return name, StatusOK
}

func descFromNative(layout C.layout_e, dims C.dimensions_t, precision C.precision_e) (Desc, StatusCode) {
	extents := make([]int64, int(dims.ranks))
	for i := range extents {
		extents[i] = int64(dims.dims[i])
	}
	d, err := NewDesc(Layout(layout), extents, Precision(precision))
	if err != nil {
		return Desc{}, StatusUnexpected
	}
	return d, StatusOK
}

func bridgeNetworkInputDesc(n networkHandle, name string) (Desc, StatusCode) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	var dims C.dimensions_t
	if st := C.ie_network_get_input_dims(n, cName, &dims); st != C.OK {
		return Desc{}, StatusCode(st)
	}
	var layout C.layout_e
	if st := C.ie_network_get_input_layout(n, cName, &layout); st != C.OK {
		return Desc{}, StatusCode(st)
	}
	var precision C.precision_e
	if st := C.ie_network_get_input_precision(n, cName, &precision); st != C.OK {
		return Desc{}, StatusCode(st)
	}
	return descFromNative(layout, dims, precision)
}

func bridgeNetworkOutputDesc(n networkHandle, name string) (Desc, StatusCode) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	var dims C.dimensions_t
	if st := C.ie_network_get_output_dims(n, cName, &dims); st != C.OK {
		return Desc{}, StatusCode(st)
	}
	var layout C.layout_e
	if st := C.ie_network_get_output_layout(n, cName, &layout); st != C.OK {
		return Desc{}, StatusCode(st)
	}
	var precision C.precision_e
	if st := C.ie_network_get_output_precision(n, cName, &precision); st != C.OK {
		return Desc{}, StatusCode(st)
	}
	return descFromNative(layout, dims, precision)
}

func bridgeNetworkSetBatch(n networkHandle, size int64) StatusCode {
	return StatusCode(C.arb_network_set_batch(n, C.size_t(size)))
}

func bridgeSetInputLayout(n networkHandle, name string, l Layout) StatusCode {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return StatusCode(C.ie_network_set_input_layout(n, cName, C.layout_e(l)))
}

func bridgeSetInputPrecision(n networkHandle, name string, p Precision) StatusCode {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return StatusCode(C.ie_network_set_input_precision(n, cName, C.precision_e(p)))
}

func bridgeSetInputResize(n networkHandle, name string, alg ResizeAlgorithm) StatusCode {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return StatusCode(C.ie_network_set_input_resize_algorithm(n, cName, C.resize_alg_e(alg)))
}

func bridgeSetOutputPrecision(n networkHandle, name string, p Precision) StatusCode {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return StatusCode(C.ie_network_set_output_precision(n, cName, C.precision_e(p)))
}

func bridgeLoadNetwork(c coreHandle, n networkHandle, device string) (execHandle, StatusCode) {
	cDevice := C.CString(device)
	defer C.free(unsafe.Pointer(cDevice))
	config := C.ie_config_t{}
	var exe *C.ie_executable_network_t
	st := C.ie_core_load_network(c, n, cDevice, &config, &exe)
	if st != C.OK {
		return nil, StatusCode(st)
	}
	// Compilation copies what it needs; releasing the source handle here is
	// what makes LoadNetwork a move at the wrapper level.
	C.ie_network_free(&n)
	return exe, StatusOK
}

func bridgeExecFree(h execHandle) {
	C.ie_exec_network_free(&h)
}

func bridgeCreateRequest(e execHandle) (requestHandle, StatusCode) {
	var req *C.ie_infer_request_t
	st := C.ie_exec_network_create_infer_request(e, &req)
	return req, StatusCode(st)
}

func bridgeRequestFree(h requestHandle) {
	C.ie_infer_request_free(&h)
}

func bridgeSetBlob(r requestHandle, name string, b blobHandle) StatusCode {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return StatusCode(C.ie_infer_request_set_blob(r, cName, b))
}

func bridgeInfer(r requestHandle) StatusCode {
	return StatusCode(C.ie_infer_request_infer(r))
}

func bridgeGetBlob(r requestHandle, name string) (blobHandle, StatusCode) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	var blob *C.ie_blob_t
	st := C.ie_infer_request_get_blob(r, cName, &blob)
	return blob, StatusCode(st)
}

func descToNative(d Desc) C.tensor_desc_t {
	var out C.tensor_desc_t
	out.layout = C.layout_e(d.layout)
	out.precision = C.precision_e(d.precision)
	out.dims.ranks = C.size_t(len(d.dims))
	for i, e := range d.dims {
		out.dims.dims[i] = C.size_t(e)
	}
	return out
}

func bridgeBlobAlloc(d Desc) (blobHandle, StatusCode) {
	desc := descToNative(d)
	var blob *C.ie_blob_t
	st := C.ie_blob_make_memory(&desc, &blob)
	return blob, StatusCode(st)
}

func bridgeBlobAdopt(d Desc, data []byte) (blobHandle, StatusCode) {
	desc := descToNative(d)
	var blob *C.ie_blob_t
	st := C.ie_blob_make_memory_from_preallocated(&desc,
		unsafe.Pointer(&data[0]), C.size_t(len(data)), &blob)
	return blob, StatusCode(st)
}

func bridgeBlobFree(b blobHandle) {
	C.ie_blob_free(&b)
}

func bridgeBlobByteSize(b blobHandle) (int64, StatusCode) {
	var size C.int
	st := C.ie_blob_byte_size(b, &size)
	return int64(size), StatusCode(st)
}

func bridgeBlobElementCount(b blobHandle) (int64, StatusCode) {
	var size C.int
	st := C.ie_blob_size(b, &size)
	return int64(size), StatusCode(st)
}

func bridgeBlobBytes(b blobHandle) ([]byte, StatusCode) {
	size, st := bridgeBlobByteSize(b)
	if st != StatusOK {
		return nil, st
	}
	var buf C.ie_blob_buffer_t
	if st := C.ie_blob_get_buffer(b, &buf); st != C.OK {
		return nil, StatusCode(st)
	}
	// ie_blob_buffer_t is a one-member union; the data pointer is its first
	// (and only) field. cgo cannot name anonymous union members, so the
	// pointer is read through the struct's address. Layout assumption:
	// the union's void* sits at offset 0.
	ptr := *(*unsafe.Pointer)(unsafe.Pointer(&buf))
	if ptr == nil {
		return nil, StatusNotAllocated
	}
	return unsafe.Slice((*byte)(ptr), int(size)), StatusOK
}
