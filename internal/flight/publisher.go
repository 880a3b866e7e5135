// Package flight publishes inference results to an Apache Arrow Flight
// endpoint so downstream consumers can ingest output tensors without a
// custom wire format.
package flight

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/23skdu/arbalest/internal/logger"
)

var log = logger.Component("flight")

// Tensor is one named output tensor flattened to float32 values.
type Tensor struct {
	Name   string
	Dims   []int64
	Values []float32
}

// resultSchema is the record layout for published tensors: one row per
// tensor, values flattened row-major with the dims alongside.
var resultSchema = arrow.NewSchema([]arrow.Field{
	{Name: "model", Type: arrow.BinaryTypes.String},
	{Name: "tensor", Type: arrow.BinaryTypes.String},
	{Name: "dims", Type: arrow.ListOf(arrow.PrimitiveTypes.Int64)},
	{Name: "values", Type: arrow.ListOf(arrow.PrimitiveTypes.Float32)},
}, nil)

// Publisher holds one Flight client connection.
type Publisher struct {
	client  flight.Client
	addr    string
	timeout time.Duration
}

// NewPublisher dials the Flight endpoint. The connection is plaintext; the
// endpoint is expected to sit on the same trust boundary as the service.
func NewPublisher(addr string) (*Publisher, error) {
	client, err := flight.NewClientWithMiddleware(addr, nil, nil,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("flight: dial %s: %w", addr, err)
	}
	log.Info("flight publisher connected", "addr", addr)
	return &Publisher{client: client, addr: addr, timeout: 30 * time.Second}, nil
}

// Close tears down the client connection.
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// buildRecord assembles one Arrow record from the model name and its output
// tensors. The caller releases the record.
func buildRecord(mem memory.Allocator, model string, tensors []Tensor) arrow.Record {
	b := array.NewRecordBuilder(mem, resultSchema)
	defer b.Release()

	modelB := b.Field(0).(*array.StringBuilder)
	nameB := b.Field(1).(*array.StringBuilder)
	dimsB := b.Field(2).(*array.ListBuilder)
	dimsV := dimsB.ValueBuilder().(*array.Int64Builder)
	valsB := b.Field(3).(*array.ListBuilder)
	valsV := valsB.ValueBuilder().(*array.Float32Builder)

	for _, t := range tensors {
		modelB.Append(model)
		nameB.Append(t.Name)
		dimsB.Append(true)
		dimsV.AppendValues(t.Dims, nil)
		valsB.Append(true)
		valsV.AppendValues(t.Values, nil)
	}
	return b.NewRecord()
}

// Publish sends the output tensors of one inference pass as a single record
// under the path ["arbalest", model].
func (p *Publisher) Publish(ctx context.Context, model string, tensors []Tensor) error {
	if p.client == nil {
		return fmt.Errorf("flight: publisher is closed")
	}
	if len(tensors) == 0 {
		return fmt.Errorf("flight: no tensors to publish")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stream, err := p.client.DoPut(ctx)
	if err != nil {
		return fmt.Errorf("flight: open put stream: %w", err)
	}

	wr := flight.NewRecordWriter(stream, ipc.WithSchema(resultSchema))
	wr.SetFlightDescriptor(&flight.FlightDescriptor{
		Type: flight.DescriptorPATH,
		Path: []string{"arbalest", model},
	})

	rec := buildRecord(memory.DefaultAllocator, model, tensors)
	defer rec.Release()

	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("flight: write record: %w", err)
	}
	if err := wr.Close(); err != nil {
		return fmt.Errorf("flight: close writer: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("flight: close stream: %w", err)
	}

	log.Debug("published inference result", "model", model, "tensors", len(tensors))
	return nil
}
