//go:build !openvino

package ov

// In-memory engine backend, selected when the native library is not linked
// in. It implements the same call surface and status-code contract as
// bridge_native.go against a JSON topology format, so every wrapper path is
// exercisable without the shared library. Inference is a deterministic
// stand-in: a single input whose byte length matches an output is copied
// through, anything else fills the outputs from a byte checksum of the
// bound inputs.

import (
	"encoding/json"
	"os"
	"sync"
)

type (
	coreHandle    = *stubCore
	networkHandle = *stubNetwork
	execHandle    = *stubExec
	requestHandle = *stubRequest
	blobHandle    = *stubBlob
)

type stubCore struct {
	plugins string
}

type stubPort struct {
	name string
	desc Desc
}

type stubNetwork struct {
	inputs  []stubPort
	outputs []stubPort
}

type stubExec struct {
	device string
	model  *stubNetwork
}

type stubRequest struct {
	mu    sync.Mutex
	model *stubNetwork
	blobs map[string]*stubBlob
}

type stubBlob struct {
	desc Desc
	data []byte
}

// stubModel is the topology file schema the stub backend reads in place of
// the engine's IR format.
type stubModel struct {
	Name    string          `json:"name"`
	Inputs  []stubModelPort `json:"inputs"`
	Outputs []stubModelPort `json:"outputs"`
}

type stubModelPort struct {
	Name      string  `json:"name"`
	Layout    string  `json:"layout"`
	Dims      []int64 `json:"dims"`
	Precision string  `json:"precision"`
}

func bridgeCoreCreate(pluginsPath string) (coreHandle, StatusCode) {
	if pluginsPath != "" {
		if _, err := os.Stat(pluginsPath); err != nil {
			return nil, StatusNotFound
		}
	}
	return &stubCore{plugins: pluginsPath}, StatusOK
}

func bridgeCoreFree(coreHandle) {}

func buildPorts(raw []stubModelPort) ([]stubPort, StatusCode) {
	ports := make([]stubPort, 0, len(raw))
	for _, p := range raw {
		layout, err := ParseLayout(p.Layout)
		if err != nil {
			return nil, StatusModelNotReady
		}
		precision, err := ParsePrecision(p.Precision)
		if err != nil {
			return nil, StatusModelNotReady
		}
		desc, err := NewDesc(layout, p.Dims, precision)
		if err != nil {
			return nil, StatusModelNotReady
		}
		ports = append(ports, stubPort{name: p.Name, desc: desc})
	}
	return ports, StatusOK
}

func bridgeReadNetwork(c coreHandle, xmlPath, binPath string) (networkHandle, StatusCode) {
	raw, err := os.ReadFile(xmlPath)
	if err != nil {
		return nil, StatusModelNotReady
	}
	if _, err := os.Stat(binPath); err != nil {
		return nil, StatusModelNotReady
	}
	var model stubModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, StatusModelNotReady
	}
	if len(model.Inputs) == 0 || len(model.Outputs) == 0 {
		return nil, StatusModelNotReady
	}
	inputs, st := buildPorts(model.Inputs)
	if st != StatusOK {
		return nil, st
	}
	outputs, st := buildPorts(model.Outputs)
	if st != StatusOK {
		return nil, st
	}
	return &stubNetwork{inputs: inputs, outputs: outputs}, StatusOK
}

func bridgeNetworkFree(networkHandle) {}

func bridgeNetworkInputCount(n networkHandle) (int, StatusCode) {
	return len(n.inputs), StatusOK
}

func bridgeNetworkOutputCount(n networkHandle) (int, StatusCode) {
	return len(n.outputs), StatusOK
}

func bridgeNetworkInputName(n networkHandle, index int) (string, StatusCode) {
	if index < 0 || index >= len(n.inputs) {
		return "", StatusOutOfBounds
	}
	return n.inputs[index].name, StatusOK
}

func bridgeNetworkOutputName(n networkHandle, index int) (string, StatusCode) {
	if index < 0 || index >= len(n.outputs) {
		return "", StatusOutOfBounds
	}
	return n.outputs[index].name, StatusOK
}

func findPort(ports []stubPort, name string) *stubPort {
	for i := range ports {
		if ports[i].name == name {
			return &ports[i]
		}
	}
	return nil
}

func bridgeNetworkInputDesc(n networkHandle, name string) (Desc, StatusCode) {
	p := findPort(n.inputs, name)
	if p == nil {
		return Desc{}, StatusNotFound
	}
	return p.desc, StatusOK
}

func bridgeNetworkOutputDesc(n networkHandle, name string) (Desc, StatusCode) {
	p := findPort(n.outputs, name)
	if p == nil {
		return Desc{}, StatusNotFound
	}
	return p.desc, StatusOK
}

func bridgeNetworkSetBatch(n networkHandle, size int64) StatusCode {
	for i := range n.inputs {
		n.inputs[i].desc = n.inputs[i].desc.withBatch(size)
	}
	for i := range n.outputs {
		n.outputs[i].desc = n.outputs[i].desc.withBatch(size)
	}
	return StatusOK
}

func bridgeSetInputLayout(n networkHandle, name string, l Layout) StatusCode {
	p := findPort(n.inputs, name)
	if p == nil {
		return StatusNotFound
	}
	p.desc.layout = l
	return StatusOK
}

func bridgeSetInputPrecision(n networkHandle, name string, prec Precision) StatusCode {
	if prec.Width() == 0 {
		return StatusParameterMismatch
	}
	p := findPort(n.inputs, name)
	if p == nil {
		return StatusNotFound
	}
	p.desc.precision = prec
	return StatusOK
}

func bridgeSetInputResize(n networkHandle, name string, alg ResizeAlgorithm) StatusCode {
	if findPort(n.inputs, name) == nil {
		return StatusNotFound
	}
	// The stand-in engine never resizes; the setting is accepted and ignored.
	return StatusOK
}

func bridgeSetOutputPrecision(n networkHandle, name string, prec Precision) StatusCode {
	if prec.Width() == 0 {
		return StatusParameterMismatch
	}
	p := findPort(n.outputs, name)
	if p == nil {
		return StatusNotFound
	}
	p.desc.precision = prec
	return StatusOK
}

func bridgeLoadNetwork(c coreHandle, n networkHandle, device string) (execHandle, StatusCode) {
	switch device {
	case "CPU", "STUB":
	default:
		return nil, StatusNotFound
	}
	// The compiled form snapshots the network: later mutation of the source
	// handle (there should be none, the wrapper consumes it) cannot leak in.
	model := &stubNetwork{
		inputs:  append([]stubPort(nil), n.inputs...),
		outputs: append([]stubPort(nil), n.outputs...),
	}
	return &stubExec{device: device, model: model}, StatusOK
}

func bridgeExecFree(execHandle) {}

func bridgeCreateRequest(e execHandle) (requestHandle, StatusCode) {
	return &stubRequest{
		model: e.model,
		blobs: make(map[string]*stubBlob),
	}, StatusOK
}

func bridgeRequestFree(requestHandle) {}

func bridgeSetBlob(r requestHandle, name string, b blobHandle) StatusCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	port := findPort(r.model.inputs, name)
	if port == nil {
		port = findPort(r.model.outputs, name)
	}
	if port == nil {
		return StatusNotFound
	}
	if int64(len(b.data)) != port.desc.ByteCount() {
		return StatusParameterMismatch
	}
	r.blobs[name] = b
	return StatusOK
}

func bridgeInfer(r requestHandle) StatusCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum uint32
	for _, in := range r.model.inputs {
		b, ok := r.blobs[in.name]
		if !ok {
			return StatusInferNotStarted
		}
		for _, v := range b.data {
			sum += uint32(v)
		}
	}

	single := len(r.model.inputs) == 1
	for _, out := range r.model.outputs {
		b, ok := r.blobs[out.name]
		if !ok {
			b = &stubBlob{desc: out.desc, data: make([]byte, out.desc.ByteCount())}
			r.blobs[out.name] = b
		}
		if single {
			in := r.blobs[r.model.inputs[0].name]
			if len(in.data) == len(b.data) {
				copy(b.data, in.data)
				continue
			}
		}
		fill := byte(sum)
		for i := range b.data {
			b.data[i] = fill
		}
	}
	return StatusOK
}

func bridgeGetBlob(r requestHandle, name string) (blobHandle, StatusCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if findPort(r.model.inputs, name) == nil && findPort(r.model.outputs, name) == nil {
		return nil, StatusNotFound
	}
	b, ok := r.blobs[name]
	if !ok {
		return nil, StatusNotAllocated
	}
	return b, StatusOK
}

func bridgeBlobAlloc(d Desc) (blobHandle, StatusCode) {
	n := d.ByteCount()
	if n <= 0 {
		return nil, StatusParameterMismatch
	}
	return &stubBlob{desc: d, data: make([]byte, n)}, StatusOK
}

func bridgeBlobAdopt(d Desc, data []byte) (blobHandle, StatusCode) {
	if int64(len(data)) != d.ByteCount() {
		return nil, StatusParameterMismatch
	}
	// Zero-copy: the blob aliases the caller's memory.
	return &stubBlob{desc: d, data: data}, StatusOK
}

func bridgeBlobFree(blobHandle) {}

func bridgeBlobByteSize(b blobHandle) (int64, StatusCode) {
	return int64(len(b.data)), StatusOK
}

func bridgeBlobElementCount(b blobHandle) (int64, StatusCode) {
	w := b.desc.precision.Width()
	if w == 0 {
		return 0, StatusParameterMismatch
	}
	return int64(len(b.data)) / w, StatusOK
}

func bridgeBlobBytes(b blobHandle) ([]byte, StatusCode) {
	if b.data == nil {
		return nil, StatusNotAllocated
	}
	return b.data, StatusOK
}
