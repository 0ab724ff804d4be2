// Command matchc-rpc serves the CompileService RPCs declared in
// internal/rpcservice/compile.proto, the same match-compiling pipeline
// cmd/matchc runs locally exposed over the network. Startup follows the
// grpcServe/grpcServeAsync builtin pattern: net.Listen, grpc.NewServer, Serve.
package main

import (
	"flag"
	"log"
	"net"
	"path/filepath"

	"google.golang.org/grpc"

	"github.com/funvibe/matchc/internal/config"
	"github.com/funvibe/matchc/internal/oracle/native"
	"github.com/funvibe/matchc/internal/rpcservice"
)

func main() {
	addr := flag.String("addr", ":8473", "listen address")
	protoPath := flag.String("proto", "internal/rpcservice/compile.proto", "path to compile.proto")
	flag.Parse()

	proj, err := config.LoadProjectFile("matchc.yaml")
	if err != nil {
		log.Fatalf("loading matchc.yaml: %v", err)
	}
	if proj.OraclePlugin != "" && proj.OraclePlugin != "native" {
		log.Printf("warning: oracle plugin %q is not wired into matchc-rpc yet; falling back to native", proj.OraclePlugin)
	}

	absProto, err := filepath.Abs(*protoPath)
	if err != nil {
		log.Fatalf("resolving %s: %v", *protoPath, err)
	}

	svc, err := rpcservice.New(absProto, native.New())
	if err != nil {
		log.Fatalf("initializing compile service: %v", err)
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listening on %s: %v", *addr, err)
	}

	gs := grpc.NewServer()
	svc.Register(gs)

	log.Printf("matchc-rpc listening on %s", *addr)
	if err := gs.Serve(lis); err != nil {
		log.Fatalf("serving: %v", err)
	}
}
