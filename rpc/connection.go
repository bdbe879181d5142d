package rpc

import (
	"crypto/tls"
	"net/url"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// getGrpcConnection opens a channel to the node. https:// URIs use TLS,
// everything else is treated as a plaintext host:port target.
func getGrpcConnection(nodeGrpcURI string) (*grpc.ClientConn, error) {
	target := nodeGrpcURI
	useTLS := false

	if strings.Contains(nodeGrpcURI, "://") {
		parsed, err := url.Parse(nodeGrpcURI)
		if err != nil {
			return nil, err
		}
		target = parsed.Host
		useTLS = parsed.Scheme == "https"
	}

	transportCredentials := insecure.NewCredentials()
	if useTLS {
		transportCredentials = credentials.NewTLS(&tls.Config{})
	}

	return grpc.Dial(target, grpc.WithTransportCredentials(transportCredentials))
}
