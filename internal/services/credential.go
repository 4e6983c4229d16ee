package services

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Azurite's fixed development account. Every emulator endpoint accepts it.
const (
	emulatorAccountName = "devstoreaccount1"
	emulatorAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// isEmulator reports whether serviceURL is a plain-http storage emulator
// endpoint. Those are signed with the shared development key instead of a
// token credential.
func isEmulator(serviceURL string) bool {
	u, err := url.Parse(serviceURL)
	return err == nil && u.Scheme == "http"
}

func emulatorAccount() (name, key string) {
	return emulatorAccountName, emulatorAccountKey
}

// remoteEndpoints returns the configured endpoints that need a token
// credential.
func remoteEndpoints(endpoints []string) []string {
	var remote []string
	for _, e := range endpoints {
		if e != "" && !isEmulator(e) {
			remote = append(remote, e)
		}
	}
	return remote
}

// NewCredential builds the token credential shared by the storage and email
// clients. It returns nil without error when every configured endpoint is an
// emulator or none is set, so a local setup never touches Azure identity.
func NewCredential(endpoints ...string) (azcore.TokenCredential, error) {
	remote := remoteEndpoints(endpoints)
	if len(remote) == 0 {
		slog.Info("no remote Azure endpoints configured; skipping token credential")
		return nil, nil
	}

	slog.Info("using default Azure credentials", "endpoints", remote)
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create default Azure credential: %w", err)
	}
	return cred, nil
}
