package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects to the brokers. tlsConfig may be nil.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsConfig != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// ApplyGokaTLS switches the goka processors and views to TLS.
// Must be called before they are created.
func ApplyGokaTLS(tlsConfig *tls.Config) {
	if tlsConfig == nil {
		return
	}
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsConfig
	goka.ReplaceGlobalConfig(cfg)
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func withNonlogViewOpt() goka.ViewOption {
	return goka.WithViewLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func orderToSchemaV1(v domain.Order) (s schema.OrderPlacedV1) {
	s.OrderID = v.ID
	s.PlacedAt = v.PlacedAt.UnixMilli()
	s.Customer.FirstName = v.Form.FirstName
	s.Customer.LastName = v.Form.LastName
	s.Customer.Email = v.Form.Email
	s.Customer.Phone = v.Form.Phone
	s.Delivery.Method = string(v.Form.DeliveryMethod)
	s.Delivery.Address = v.Form.Address
	s.Delivery.City = v.Form.City
	s.Delivery.PostalCode = v.Form.PostalCode
	s.PaymentMethod = string(v.Form.PaymentMethod)
	s.Comment = v.Form.Comment
	s.Subtotal = int64(v.Summary.Subtotal)
	s.DeliveryFee = int64(v.Summary.DeliveryFee)
	s.Total = int64(v.Summary.Total)

	s.Lines = make([]schema.OrderLineV1, len(v.Lines))
	for i, l := range v.Lines {
		s.Lines[i].ProductID = l.Product.ID
		s.Lines[i].Name = l.Product.Name
		s.Lines[i].UnitPrice = int64(l.Product.Price)
		s.Lines[i].Quantity = l.Quantity
	}
	return
}

// schemaV1ToOrder restores the order as published. Line products carry
// only the fields present in the record.
func schemaV1ToOrder(s schema.OrderPlacedV1) (v domain.Order) {
	v.ID = s.OrderID
	v.PlacedAt = time.UnixMilli(s.PlacedAt).UTC()
	v.Form.FirstName = s.Customer.FirstName
	v.Form.LastName = s.Customer.LastName
	v.Form.Email = s.Customer.Email
	v.Form.Phone = s.Customer.Phone
	v.Form.DeliveryMethod = domain.DeliveryMethod(s.Delivery.Method)
	v.Form.Address = s.Delivery.Address
	v.Form.City = s.Delivery.City
	v.Form.PostalCode = s.Delivery.PostalCode
	v.Form.PaymentMethod = domain.PaymentMethod(s.PaymentMethod)
	v.Form.Comment = s.Comment
	v.Summary.Subtotal = int(s.Subtotal)
	v.Summary.DeliveryFee = int(s.DeliveryFee)
	v.Summary.Total = int(s.Total)

	v.Lines = make([]domain.CartLine, len(s.Lines))
	for i, l := range s.Lines {
		v.Lines[i].Product.ID = l.ProductID
		v.Lines[i].Product.Name = l.Name
		v.Lines[i].Product.Price = int(l.UnitPrice)
		v.Lines[i].Quantity = l.Quantity
	}
	return
}
