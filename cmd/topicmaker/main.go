package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/craft-store/config"
	"github.com/niksmo/craft-store/internal/adapter"
	"github.com/niksmo/craft-store/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	minISR            = "2"
	deletePolicy      = "delete"
	compactPolicy     = "compact"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	if !cfg.Broker.Enabled() {
		printFail(errors.New("broker.seed_brokers is empty"))
		return
	}

	var tlsConfig *tls.Config
	if t := cfg.Broker.TLS; t.Enabled() {
		var err error
		tlsConfig, err = adapter.MakeTLSConfig(t.CA, t.Cert, t.Key)
		if err != nil {
			printFail(err)
			return
		}
	}

	cl := createClient(cfg.Broker.SeedBrokers, tlsConfig)
	defer cl.Close()

	ordersTopic := cfg.Broker.Topics.Orders
	ledgerTable := toGroupTable(cfg.Broker.Groups.OrderLedger)

	printStart(ordersTopic, ledgerTable)
	defer printComplete(time.Now())

	// order events
	err := makeTopics(sigCtx, cl, deletePolicy, ordersTopic)
	if err != nil {
		printFail(err)
		return
	}

	// order ledger group table
	err = makeTopics(sigCtx, cl, compactPolicy, ledgerTable)
	if err != nil {
		printFail(err)
		return
	}
}

func createClient(seedBrokers []string, tlsConfig *tls.Config) *kadm.Client {
	opts := []kgo.Opt{kgo.SeedBrokers(seedBrokers...)}
	if tlsConfig != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	}

	cl, err := kadm.NewOptClient(opts...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func topicConfig(cleanupPolicy string) map[string]*string {
	isr := minISR
	return map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &isr,
	}
}

func makeTopics(
	ctx context.Context, cl *kadm.Client, cleanupPolicy string, topics ...string,
) error {
	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		topicConfig(cleanupPolicy),
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if res.Err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
				continue
			}
			errs = append(errs, fmt.Errorf("topic %q: %w", res.Topic, res.Err))
			continue
		}
		fmt.Printf("topic: %q created, policy=%s\n", res.Topic, cleanupPolicy)
	}

	return errors.Join(errs...)
}

func printStart(topics ...string) {
	fmt.Println("initializing topics...")
	for _, t := range topics {
		fmt.Printf("\t- %q\n", t)
	}
	fmt.Println()
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}

func toGroupTable(group string) string {
	return string(goka.GroupTable(goka.Group(group)))
}
