package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/23skdu/arbalest/internal/config"
	"github.com/23skdu/arbalest/internal/flight"
	"github.com/23skdu/arbalest/internal/imaging"
	"github.com/23skdu/arbalest/internal/logger"
	"github.com/23skdu/arbalest/internal/modelstore"
	"github.com/23skdu/arbalest/internal/monitoring"
	"github.com/23skdu/arbalest/internal/ov"
)

var (
	modelXML    = flag.String("model", "", "Path or gs:// URL of the model topology (.xml)")
	modelBin    = flag.String("weights", "", "Path or gs:// URL of the model weights (.bin)")
	imagePath   = flag.String("image", "", "Input image to classify (optional; zeros are fed without it)")
	device      = flag.String("device", "CPU", "Device selector to compile for")
	batchSize   = flag.Int("batch", 1, "Batch size")
	plugins     = flag.String("plugins", "", "Engine plugin registry file")
	inLayout    = flag.String("input-layout", "NHWC", "Input tensor layout")
	inPrec      = flag.String("input-precision", "U8", "Input element precision")
	outPrec     = flag.String("output-precision", "FP32", "Output element precision")
	noResize    = flag.Bool("no-resize", false, "Disable engine-side input resizing")
	cacheDir    = flag.String("cache-dir", "", "Download cache for remote models")
	metricsAddr = flag.String("metrics", ":9090", "Address for health and metrics endpoints")
	flightAddr  = flag.String("flight", "", "Arrow Flight endpoint to publish outputs to (optional)")
	logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat   = flag.String("log-format", "console", "Log format (console or json)")
)

func main() {
	flag.Parse()
	logger.Setup(*logLevel, *logFormat)
	log := logger.Log

	cfg := config.Default()
	cfg.ModelXML = *modelXML
	cfg.ModelBin = *modelBin
	cfg.Device = *device
	cfg.BatchSize = *batchSize
	cfg.PluginsPath = *plugins
	cfg.InputLayout = *inLayout
	cfg.InputPrecision = *inPrec
	cfg.OutputPrecision = *outPrec
	cfg.ResizeInput = !*noResize
	cfg.CacheDir = *cacheDir
	cfg.MetricsAddr = *metricsAddr
	cfg.FlightAddr = *flightAddr

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	health := monitoring.NewHealthMonitor()
	go func() {
		if err := health.Start(cfg.MetricsAddr); err != nil {
			log.Warn("health server stopped", "error", err)
		}
	}()
	defer health.Stop(context.Background())

	if err := run(ctx, cfg, health); err != nil {
		log.Error("inference failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, health *monitoring.HealthMonitor) error {
	log := logger.Log

	store, err := modelstore.New(cfg.CacheDir)
	if err != nil {
		return err
	}
	pair, err := store.Resolve(ctx, cfg.ModelXML, cfg.ModelBin)
	if err != nil {
		return err
	}

	core, err := ov.NewCore(cfg.PluginsPath)
	if err != nil {
		return err
	}
	defer core.Close()

	net, err := core.ReadNetwork(pair.XML, pair.Bin)
	if err != nil {
		return err
	}
	defer net.Close()

	inName, err := net.InputName(0)
	if err != nil {
		return err
	}
	outName, err := net.OutputName(0)
	if err != nil {
		return err
	}

	if err := net.SetBatchSize(cfg.BatchSize); err != nil {
		return err
	}

	layout, _ := ov.ParseLayout(cfg.InputLayout)
	inPrecision, _ := ov.ParsePrecision(cfg.InputPrecision)
	outPrecision, _ := ov.ParsePrecision(cfg.OutputPrecision)
	alg := ov.NoResize
	if cfg.ResizeInput {
		alg = ov.ResizeBilinear
	}
	if err := net.PrepInput(inName, alg, layout, inPrecision); err != nil {
		return err
	}
	if err := net.PrepOutput(outName, outPrecision); err != nil {
		return err
	}

	inDesc, err := net.InputDesc(inName)
	if err != nil {
		return err
	}

	exec, err := core.LoadNetwork(net, cfg.Device)
	if err != nil {
		return err
	}
	defer exec.Close()
	health.SetModel(pair.XML, cfg.Device)
	log.Info("model ready", "input", inName, "output", outName, "desc", inDesc.String())

	req, err := exec.CreateInferRequest()
	if err != nil {
		return err
	}
	defer req.Close()

	var data []byte
	if *imagePath != "" {
		data, err = imaging.PrepareFile(*imagePath, inDesc)
		if err != nil {
			return err
		}
	} else {
		data = make([]byte, inDesc.ByteCount())
	}

	in, err := ov.BlobFromBytes(inDesc, data)
	if err != nil {
		return err
	}
	defer in.Free()

	if err := req.SetBlob(inName, in); err != nil {
		return err
	}

	start := time.Now()
	if err := req.Infer(); err != nil {
		return err
	}
	health.RecordInference()
	log.Info("inference complete", "duration", time.Since(start))

	out, err := req.Blob(outName)
	if err != nil {
		return err
	}
	raw, err := out.Bytes()
	if err != nil {
		return err
	}

	values := decodeFloat32(raw, outPrecision)
	printTop(values, 5)

	if cfg.FlightAddr != "" {
		pub, err := flight.NewPublisher(cfg.FlightAddr)
		if err != nil {
			return err
		}
		defer pub.Close()
		tensor := flight.Tensor{Name: outName, Dims: []int64{int64(len(values))}, Values: values}
		if err := pub.Publish(ctx, pair.XML, []flight.Tensor{tensor}); err != nil {
			return err
		}
	}
	return nil
}

// decodeFloat32 interprets raw output bytes as float32 values when the
// precision allows, otherwise widens U8 bytes.
func decodeFloat32(raw []byte, p ov.Precision) []float32 {
	switch p {
	case ov.PrecisionFP32:
		values := make([]float32, len(raw)/4)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return values
	case ov.PrecisionU8:
		values := make([]float32, len(raw))
		for i, b := range raw {
			values[i] = float32(b)
		}
		return values
	}
	return nil
}

func printTop(values []float32, n int) {
	type scored struct {
		idx int
		v   float32
	}
	top := make([]scored, 0, n)
	for i, v := range values {
		pos := len(top)
		for pos > 0 && top[pos-1].v < v {
			pos--
		}
		if pos < n {
			top = append(top, scored{})
			copy(top[pos+1:], top[pos:])
			top[pos] = scored{idx: i, v: v}
			if len(top) > n {
				top = top[:n]
			}
		}
	}
	for rank, s := range top {
		fmt.Printf("%d. class %d: %f\n", rank+1, s.idx, s.v)
	}
}
