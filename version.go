package svgflat

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/aretw0/svgflat.Version=v1.2.3" ./cmd/svgflat
var Version = "dev"
