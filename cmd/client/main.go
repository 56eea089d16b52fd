package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	zkc "github.com/mikekulinski/zkasync/pkg/client"
	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/transport"
)

const (
	serverAddress = "localhost"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	t, err := transport.DialRPC(serverAddress, transport.WithLogger(log))
	if err != nil {
		log.Fatal("dialing", zap.Error(err))
	}
	client, err := zkc.NewClient(t, zkc.WithLogger(log))
	if err != nil {
		log.Fatal("connecting", zap.Error(err))
	}
	defer client.Close()

	log.Info("connected to the coordination server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Node-style observers fire with (error, values...) once the result is in.
	created := client.Create("/zoo", []byte("Secrets hahahahaha!!"), nil, func(err error, values ...any) {
		if err != nil {
			log.Error("create /zoo", zap.Error(err))
			return
		}
		log.Info("created", zap.String("path", values[0].(string)))
	})
	if _, err := created.Wait(ctx); err != nil {
		log.Fatal("create /zoo", zap.Error(err))
	}
	created = client.Create("/zoo/giraffe", []byte("More secrets"), nil, func(err error, values ...any) {
		if err != nil {
			log.Error("create /zoo/giraffe", zap.Error(err))
			return
		}
		log.Info("created", zap.String("path", values[0].(string)))
	})
	if _, err := created.Wait(ctx); err != nil {
		log.Fatal("create /zoo/giraffe", zap.Error(err))
	}

	// Deferred-style subscribers work on the same handles.
	get := client.Get("/zoo", nil)
	get.OnSuccess(func(values ...any) {
		data := values[0].([]byte)
		stat := values[1].(*result.Stat)
		log.Info("got data",
			zap.ByteString("data", data),
			zap.Int32("version", stat.Version))
	})
	get.OnFailure(func(err error) {
		log.Error("get /zoo", zap.Error(err))
	})

	exists := client.Exists("/zoo/lion", nil)
	children := client.GetChildren("/zoo", nil)

	values, err := exists.Wait(ctx)
	if err != nil {
		log.Fatal("exists /zoo/lion", zap.Error(err))
	}
	log.Info("exists", zap.Bool("exists", values[0].(bool)))

	values, err = children.Wait(ctx)
	if err != nil {
		log.Fatal("children /zoo", zap.Error(err))
	}
	log.Info("children", zap.Strings("names", values[0].([]string)))
}
