package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"entropyd/go-core/internal/config"
	"entropyd/go-core/internal/derivation"
	"entropyd/go-core/internal/hardening"
	"entropyd/go-core/internal/service"
	"entropyd/go-core/pkg/models"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "Path to entropyd.yaml (optional)")
	app := flag.String("app", "mnemonic", "Application: mnemonic | hex | password")
	words := flag.Uint("words", 12, "Mnemonic word count (12, 15, 18, 21, 24)")
	language := flag.String("language", "english", "Mnemonic wordlist language")
	numBytes := flag.Uint("bytes", 32, "Hex entropy byte length (16-64)")
	upper := flag.Bool("upper", false, "Upper-case hex output")
	length := flag.Uint("length", 24, "Password character length (10-128)")
	charset := flag.String("charset", "base64", "Password charset: base64 | base85 | alphanumeric | printable")
	index := flag.Uint("index", 0, "Child index (0 to 2^31-1)")
	noCache := flag.Bool("no-cache", false, "Bypass the derived-key cache")
	strict := flag.Bool("strict", false, "Fail on low entropy-quality score")
	flag.Parse()
	if *showVersion {
		fmt.Printf("entropyd version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	seed, err := readSeed()
	if err != nil {
		log.Fatalf("entropyd: %v", err)
	}
	defer hardening.WipeBytes(seed)

	application, lengthParam, err := resolveApp(*app, uint32(*words), uint32(*numBytes), uint32(*length))
	if err != nil {
		log.Fatalf("entropyd: %v", err)
	}

	cfg := config.LoadFromPath(*configPath)
	svc := service.New(cfg, nil, prometheus.NewRegistry())
	defer svc.ClearCache()

	out, err := svc.Derive(seed, application, lengthParam, uint32(*index), service.Options{
		Language: *language,
		Charset:  *charset,
		UpperHex: *upper,
		Strict:   *strict,
		NoCache:  *noCache,
	})
	if err != nil {
		log.Fatalf("entropyd: derivation failed: %v", err)
	}

	switch out.Kind {
	case models.OutputKindMnemonic:
		fmt.Println(out.Mnemonic.Phrase)
	case models.OutputKindHex:
		fmt.Println(out.Hex.Text)
	case models.OutputKindPassword:
		fmt.Println(out.Password.Text)
	}
	if out.Quality != nil {
		for _, warning := range out.Quality.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}
	}
}

// readSeed takes the 64-byte master seed as hex from ENTROPYD_SEED_HEX or,
// failing that, from the first line of stdin.
func readSeed() ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv("ENTROPYD_SEED_HEX"))
	if raw == "" {
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return nil, fmt.Errorf("no seed on stdin and ENTROPYD_SEED_HEX unset")
		}
		raw = strings.TrimSpace(scanner.Text())
	}
	seed, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("seed is not valid hex: %v", err)
	}
	if len(seed) != derivation.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", derivation.SeedSize, len(seed))
	}
	return seed, nil
}

func resolveApp(app string, words, numBytes, length uint32) (application, lengthParam uint32, err error) {
	switch strings.ToLower(strings.TrimSpace(app)) {
	case string(models.OutputKindMnemonic):
		return derivation.AppMnemonic, words, nil
	case string(models.OutputKindHex):
		return derivation.AppHex, numBytes, nil
	case string(models.OutputKindPassword):
		return derivation.AppPassword, length, nil
	default:
		return 0, 0, fmt.Errorf("unknown application %q", app)
	}
}
