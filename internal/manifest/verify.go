package manifest

import (
	"fmt"

	"github.com/jedisct1/go-minisign"
)

// VerifySignature checks a minisign signature over the raw manifest bytes.
// sigPath is the .minisig sidecar, pubKeyPath the operator's .pub file.
// Operators who publish the manifest over plain HTTP sign it; the daemon
// refuses to serve an unverifiable manifest when a key is configured.
func VerifySignature(data []byte, sigPath, pubKeyPath string) error {
	pubKey, err := minisign.NewPublicKeyFromFile(pubKeyPath)
	if err != nil {
		return fmt.Errorf("read minisign pubkey: %w", err)
	}

	sig, err := minisign.NewSignatureFromFile(sigPath)
	if err != nil {
		return fmt.Errorf("read minisign signature: %w", err)
	}

	valid, err := pubKey.Verify(data, sig)
	if err != nil {
		return fmt.Errorf("minisign: verification error: %w", err)
	}
	if !valid {
		return fmt.Errorf("minisign: signature verification failed")
	}

	return nil
}
