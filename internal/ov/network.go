package ov

import "fmt"

// Network is the mutable, in-memory form of a model before device
// compilation. Batch size, layout, precision and resize algorithm can be
// set until Core.LoadNetwork consumes it.
type Network struct {
	h        networkHandle
	consumed bool
	closed   bool
}

func (n *Network) guard() error {
	if n.consumed {
		return fmt.Errorf("ov: network: %w", ErrConsumed)
	}
	if n.closed {
		return fmt.Errorf("ov: network: %w", ErrClosed)
	}
	return nil
}

// Close releases the network handle if compilation has not taken it.
// Idempotent.
func (n *Network) Close() error {
	if n.closed || n.consumed {
		return nil
	}
	n.closed = true
	bridgeNetworkFree(n.h)
	n.h = nil
	return nil
}

// SetBatchSize sets the batch dimension on every batched input and output.
func (n *Network) SetBatchSize(size int) error {
	if err := n.guard(); err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("ov: batch size %d: %w", size, ErrParameterMismatch)
	}
	return statusErr("set_batch_size", bridgeNetworkSetBatch(n.h, int64(size)))
}

// InputCount returns the number of model inputs.
func (n *Network) InputCount() (int, error) {
	if err := n.guard(); err != nil {
		return 0, err
	}
	count, st := bridgeNetworkInputCount(n.h)
	if err := statusErr("inputs_number", st); err != nil {
		return 0, err
	}
	return count, nil
}

// OutputCount returns the number of model outputs.
func (n *Network) OutputCount() (int, error) {
	if err := n.guard(); err != nil {
		return 0, err
	}
	count, st := bridgeNetworkOutputCount(n.h)
	if err := statusErr("outputs_number", st); err != nil {
		return 0, err
	}
	return count, nil
}

// InputName returns the name of the input at the given index.
func (n *Network) InputName(index int) (string, error) {
	if err := n.guard(); err != nil {
		return "", err
	}
	name, st := bridgeNetworkInputName(n.h, index)
	if err := statusErr("input_name", st); err != nil {
		return "", err
	}
	return name, nil
}

// OutputName returns the name of the output at the given index.
func (n *Network) OutputName(index int) (string, error) {
	if err := n.guard(); err != nil {
		return "", err
	}
	name, st := bridgeNetworkOutputName(n.h, index)
	if err := statusErr("output_name", st); err != nil {
		return "", err
	}
	return name, nil
}

// InputDesc returns the current descriptor of the named input.
func (n *Network) InputDesc(name string) (Desc, error) {
	if err := n.guard(); err != nil {
		return Desc{}, err
	}
	d, st := bridgeNetworkInputDesc(n.h, name)
	if err := statusErr("input_desc", st); err != nil {
		return Desc{}, err
	}
	return d, nil
}

// OutputDesc returns the current descriptor of the named output.
func (n *Network) OutputDesc(name string) (Desc, error) {
	if err := n.guard(); err != nil {
		return Desc{}, err
	}
	d, st := bridgeNetworkOutputDesc(n.h, name)
	if err := statusErr("output_desc", st); err != nil {
		return Desc{}, err
	}
	return d, nil
}

// SetInputLayout re-tags the named input's memory layout.
func (n *Network) SetInputLayout(name string, l Layout) error {
	if err := n.guard(); err != nil {
		return err
	}
	return statusErr("set_input_layout", bridgeSetInputLayout(n.h, name, l))
}

// SetInputPrecision sets the named input's element precision.
func (n *Network) SetInputPrecision(name string, p Precision) error {
	if err := n.guard(); err != nil {
		return err
	}
	return statusErr("set_input_precision", bridgeSetInputPrecision(n.h, name, p))
}

// SetInputResizeAlgorithm selects how the engine resizes the named input.
func (n *Network) SetInputResizeAlgorithm(name string, alg ResizeAlgorithm) error {
	if err := n.guard(); err != nil {
		return err
	}
	return statusErr("set_input_resize", bridgeSetInputResize(n.h, name, alg))
}

// SetOutputPrecision sets the named output's element precision.
func (n *Network) SetOutputPrecision(name string, p Precision) error {
	if err := n.guard(); err != nil {
		return err
	}
	return statusErr("set_output_precision", bridgeSetOutputPrecision(n.h, name, p))
}

// PrepInput applies resize algorithm, layout and precision to the named
// input, stopping at the first failing step so the reported error is the
// step that actually failed.
func (n *Network) PrepInput(name string, alg ResizeAlgorithm, l Layout, p Precision) error {
	if err := n.SetInputResizeAlgorithm(name, alg); err != nil {
		return err
	}
	if err := n.SetInputLayout(name, l); err != nil {
		return err
	}
	return n.SetInputPrecision(name, p)
}

// PrepOutput applies the output precision. Kept symmetric with PrepInput for
// call sites preparing both sides of a model.
func (n *Network) PrepOutput(name string, p Precision) error {
	return n.SetOutputPrecision(name, p)
}
