// Package keypair loads signing keys from the environment or a dotenv file,
// generating and persisting a fresh one on first use.
package keypair

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"

	"solana-course/internal/pkg/log"
)

const DefaultName = "PRIVATE_KEY"

var ErrNotFound = errors.New("keypair not found")

// Parse accepts the `[n,n,...]` secret key array written by Format and by
// solana-keygen, or a base58 encoded secret key.
func Parse(value string) (solana.PrivateKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrNotFound
	}
	if strings.HasPrefix(value, "[") {
		return solana.PrivateKeyFromSolanaKeygenFileBytes([]byte(value))
	}

	return solana.PrivateKeyFromBase58(value)
}

func Format(pk solana.PrivateKey) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range pk {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteByte(']')

	return b.String()
}

// Load looks the key up in the process environment first, then in envFile.
func Load(envFile, name string) (solana.PrivateKey, error) {
	if v := os.Getenv(name); v != "" {
		pk, err := Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %s", name, err)
		}
		return pk, nil
	}

	env, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	v, ok := env[name]
	if !ok {
		return nil, ErrNotFound
	}
	pk, err := Parse(v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %s", name, err)
	}

	return pk, nil
}

// LoadOrCreate returns the named key, generating one and appending it to envFile
// when it is not configured anywhere. Existing entries of envFile are kept.
func LoadOrCreate(envFile, name string) (pk solana.PrivateKey, created bool, err error) {
	keys, created, err := LoadOrCreateSet(envFile, name)
	if err != nil {
		return nil, false, err
	}

	return keys[0], created, nil
}

// LoadOrCreateSet loads keys that belong together, such as a signer and its recipient.
// When any of them is missing, all of them are generated again and saved to envFile.
func LoadOrCreateSet(envFile string, names ...string) (keys []solana.PrivateKey, created bool, err error) {
	keys = make([]solana.PrivateKey, len(names))
	complete := true
	for i, name := range names {
		keys[i], err = Load(envFile, name)
		if errors.Is(err, ErrNotFound) {
			complete = false
			continue
		}
		if err != nil {
			return nil, false, err
		}
	}
	if complete {
		return keys, false, nil
	}

	env, err := readEnvFile(envFile)
	if err != nil {
		return nil, false, err
	}
	for i, name := range names {
		keys[i], err = solana.NewRandomPrivateKey()
		if err != nil {
			return nil, false, fmt.Errorf("NewRandomPrivateKey: %s", err)
		}
		env[name] = Format(keys[i])
		// the process env wins over the file in Load
		err = os.Unsetenv(name)
		if err != nil {
			return nil, false, fmt.Errorf("Unsetenv %s: %s", name, err)
		}
	}
	err = godotenv.Write(env, envFile)
	if err != nil {
		return nil, false, fmt.Errorf("godotenv.Write (%s): %s", envFile, err)
	}
	for i, name := range names {
		log.Logger.General.Infof("Generated new keypair %s, saved as %s in %s", keys[i].PublicKey(), name, envFile)
	}

	return keys, true, nil
}

func readEnvFile(envFile string) (map[string]string, error) {
	env, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("godotenv.Read (%s): %s", envFile, err)
	}

	return env, nil
}
