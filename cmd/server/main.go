package main

import (
	"net"
	"net/http"
	"net/rpc"

	"go.uber.org/zap"

	"github.com/mikekulinski/zkasync/pkg/server"
	"github.com/mikekulinski/zkasync/pkg/wire"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	zk := server.NewServer(server.WithLogger(log))
	if err := rpc.RegisterName(wire.ServiceName, zk); err != nil {
		log.Fatal("register error", zap.Error(err))
	}
	rpc.HandleHTTP()
	l, err := net.Listen("tcp", ":8080")
	if err != nil {
		log.Fatal("listen error", zap.Error(err))
	}

	log.Info("listening on localhost:8080")
	if err := http.Serve(l, nil); err != nil {
		log.Fatal("serve error", zap.Error(err))
	}
}
