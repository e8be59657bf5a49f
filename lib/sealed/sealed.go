// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"filippo.io/age"

	"github.com/bureau-foundation/parkir/lib/secret"
)

// Identity is an age x25519 identity. The private key lives in a
// secret.Buffer; Recipient is safe to display.
type Identity struct {
	PrivateKey *secret.Buffer
	Recipient  string
}

// Close releases the private key memory.
func (i *Identity) Close() error {
	if i.PrivateKey != nil {
		return i.PrivateKey.Close()
	}
	return nil
}

// GenerateIdentity creates a fresh identity.
func GenerateIdentity() (*Identity, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age identity: %w", err)
	}
	privateKey, err := secret.NewFromString(identity.String())
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Identity{PrivateKey: privateKey, Recipient: identity.Recipient().String()}, nil
}

// LoadOrCreateIdentity reads the identity at path, or generates one and
// writes it there with mode 0600 when the file does not exist.
func LoadOrCreateIdentity(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return createIdentity(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	privateKey, err := secret.NewFromBytes(bytes.TrimSpace(data))
	secret.Zero(data)
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	parsed, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		privateKey.Close()
		return nil, fmt.Errorf("key file %s: invalid age identity: %w", path, err)
	}
	return &Identity{PrivateKey: privateKey, Recipient: parsed.Recipient().String()}, nil
}

func createIdentity(path string) (*Identity, error) {
	identity, err := GenerateIdentity()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		identity.Close()
		return nil, fmt.Errorf("creating key directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		identity.Close()
		return nil, fmt.Errorf("creating key file: %w", err)
	}
	_, writeErr := file.Write(append(identity.PrivateKey.Bytes(), '\n'))
	closeErr := file.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		identity.Close()
		return nil, fmt.Errorf("writing key file: %w", err)
	}
	return identity, nil
}

// Seal encrypts plaintext to recipient (age1... form) and returns the
// binary age ciphertext.
func Seal(plaintext []byte, recipient string) ([]byte, error) {
	parsed, err := age.ParseX25519Recipient(recipient)
	if err != nil {
		return nil, fmt.Errorf("parsing recipient %q: %w", recipient, err)
	}
	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, parsed)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Open decrypts ciphertext with the identity. The caller closes the
// returned buffer.
func Open(ciphertext []byte, identity *Identity) (*secret.Buffer, error) {
	parsed, err := age.ParseX25519Identity(identity.PrivateKey.String())
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), parsed)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	if len(plaintext) == 0 {
		return nil, errors.New("decrypted plaintext is empty")
	}
	return secret.NewFromBytes(plaintext)
}
