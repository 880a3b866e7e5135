// ovinfo prints the input and output tensors of a model without compiling
// it, for checking shapes and precisions before serving.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/23skdu/arbalest/internal/logger"
	"github.com/23skdu/arbalest/internal/ov"
)

var (
	modelXML = flag.String("model", "", "Path to the model topology (.xml)")
	modelBin = flag.String("weights", "", "Path to the model weights (.bin)")
	plugins  = flag.String("plugins", "", "Engine plugin registry file")
)

func main() {
	flag.Parse()
	logger.Setup("warn", "console")

	if *modelXML == "" || *modelBin == "" {
		fmt.Fprintln(os.Stderr, "Error: --model and --weights are required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	core, err := ov.NewCore(*plugins)
	if err != nil {
		return err
	}
	defer core.Close()

	net, err := core.ReadNetwork(*modelXML, *modelBin)
	if err != nil {
		return err
	}
	defer net.Close()

	inputs, err := net.InputCount()
	if err != nil {
		return err
	}
	outputs, err := net.OutputCount()
	if err != nil {
		return err
	}

	fmt.Printf("Inputs (%d):\n", inputs)
	for i := 0; i < inputs; i++ {
		name, err := net.InputName(i)
		if err != nil {
			return err
		}
		d, err := net.InputDesc(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-24s %s (%d bytes)\n", name, d, d.ByteCount())
	}

	fmt.Printf("Outputs (%d):\n", outputs)
	for i := 0; i < outputs; i++ {
		name, err := net.OutputName(i)
		if err != nil {
			return err
		}
		d, err := net.OutputDesc(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-24s %s (%d bytes)\n", name, d, d.ByteCount())
	}
	return nil
}
