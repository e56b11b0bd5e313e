// cosign is a command-line utility for cooperative RSA signatures: see
// package cosign.dev/cosign for the underlying math and codec. Each
// invocation performs one operation (genkey, threshold, sign, merge,
// verify, inspect) to completion and exits, in the same single-shot-script
// style as the teacher package's examples/main.go dispatcher.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"cosign.dev/cosign"
	"cosign.dev/cosign/internal/cliutil"
)

const usage = `cosign: cooperative RSA signatures

Usage:
  cosign genkey N basename          split a fresh key into N unanimous shards
  cosign threshold basename         deal a fresh 2-of-3 threshold key
  cosign threshold basename k0 k1   re-split from two existing threshold shards
  cosign split basename k0 k1       alias for "threshold basename k0 k1"
  cosign sign keyfile                sign stdin with a shard, write partial signature to stdout
  cosign merge pubkey sig...         merge partial signatures, write full signature to stdout
  cosign verify pubkey sigfile       verify a merged signature against stdin
  cosign inspect keyfile             print a shard's public shape
  cosign help                        show this message
`

func main() {
	log := cliutil.New(os.Stderr, os.Getenv("COSIGN_LOG_LEVEL"))
	if err := run(os.Args[1:], os.Stdin, os.Stdout, log); err != nil {
		fields := map[string]string{}
		if len(os.Args) > 1 {
			fields["subcommand"] = os.Args[1]
		}
		log.Fatal(err, fields)
		fmt.Fprintln(os.Stderr, "cosign:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, log *cliutil.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("no subcommand given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	case "genkey":
		return cmdGenkey(rest, log)
	case "threshold", "split":
		return cmdThreshold(rest, log)
	case "sign":
		return cmdSign(rest, stdin, stdout, log)
	case "merge":
		return cmdMerge(rest, stdout, log)
	case "verify":
		return cmdVerify(rest, stdin, log)
	case "inspect":
		return cmdInspect(rest, stdout)
	default:
		return fmt.Errorf("unknown subcommand %q", cmd)
	}
}

func cmdGenkey(args []string, log *cliutil.Logger) error {
	fs := flag.NewFlagSet("genkey", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: cosign genkey N basename")
	}

	n, basename := 0, fs.Arg(1)
	if _, err := fmt.Sscanf(fs.Arg(0), "%d", &n); err != nil {
		return fmt.Errorf("invalid N %q: %w", fs.Arg(0), err)
	}

	dealt, err := cosign.DealUnanimous(n)
	if err != nil {
		return err
	}
	log.Debug("generated unanimous key", map[string]string{"basename": basename, "n": fs.Arg(0)})
	return writeDealtKey(basename, dealt, log)
}

func cmdThreshold(args []string, log *cliutil.Logger) error {
	fs := flag.NewFlagSet("threshold", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch fs.NArg() {
	case 1:
		dealt, err := cosign.DealThreshold()
		if err != nil {
			return err
		}
		log.Debug("generated threshold key", map[string]string{"basename": fs.Arg(0)})
		return writeDealtKey(fs.Arg(0), dealt, log)

	case 3:
		basename := fs.Arg(0)
		a, err := readShard(fs.Arg(1))
		if err != nil {
			return err
		}
		b, err := readShard(fs.Arg(2))
		if err != nil {
			return err
		}
		dealt, err := cosign.ResplitThreshold(a, b)
		if err != nil {
			return err
		}
		log.Debug("re-split threshold key", map[string]string{"basename": basename})
		return writeDealtKey(basename, dealt, log)

	default:
		return fmt.Errorf("usage: cosign threshold basename [k0 k1]")
	}
}

func cmdSign(args []string, stdin io.Reader, stdout io.Writer, log *cliutil.Logger) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cosign sign keyfile")
	}

	shard, err := readShard(fs.Arg(0))
	if err != nil {
		return err
	}

	message, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}

	partial, err := cosign.PartialSign(shard, message)
	if err != nil {
		return err
	}
	log.Debug("produced partial signature", map[string]string{"keyfile": fs.Arg(0)})

	_, err = stdout.Write(partial)
	return err
}

func cmdMerge(args []string, stdout io.Writer, log *cliutil.Logger) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: cosign merge pubkey sig1 sig2 ... sigK")
	}

	pubData, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read %s: %w", fs.Arg(0), err)
	}
	pub, err := cosign.DecodePublicKeyPEM(pubData)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	partials := make([][]byte, fs.NArg()-1)
	for i, name := range fs.Args()[1:] {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		partials[i] = data
	}

	sig, err := cosign.MergePartials(pub, partials)
	if err != nil {
		return err
	}
	log.Debug("merge decided", map[string]string{"pubkey": fs.Arg(0), "inputs": fmt.Sprint(len(partials))})

	_, err = stdout.Write(sig)
	return err
}

func cmdVerify(args []string, stdin io.Reader, log *cliutil.Logger) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: cosign verify pubkey sigfile")
	}

	pubData, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read %s: %w", fs.Arg(0), err)
	}
	pub, err := cosign.DecodePublicKeyPEM(pubData)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	sig, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("read %s: %w", fs.Arg(1), err)
	}

	message, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}

	if err := cosign.Verify(pub, message, sig); err != nil {
		return err
	}
	log.Debug("signature verified", map[string]string{"pubkey": fs.Arg(0)})
	return nil
}

func cmdInspect(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cosign inspect keyfile")
	}

	shard, err := readShard(fs.Arg(0))
	if err != nil {
		return err
	}

	kind := "unanimous"
	if shard.IsThreshold() {
		kind = "threshold"
	}
	fmt.Fprintf(stdout, "modulus bits: %d\npublic exponent: %d\nkind: %s\n",
		shard.Pub.N.BitLen(), shard.Pub.E, kind)
	return nil
}

func readShard(path string) (*cosign.Shard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	shard, err := cosign.DecodeShardPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shard, nil
}

func writeDealtKey(basename string, dealt *cosign.DealtKey, log *cliutil.Logger) error {
	pubPEM, err := cosign.EncodePublicKeyPEM(dealt.Pub)
	if err != nil {
		return err
	}
	if err := os.WriteFile(basename+".pub", pubPEM, 0o644); err != nil {
		return fmt.Errorf("write %s.pub: %w", basename, err)
	}
	if err := os.WriteFile(basename+".pem", dealt.CertPEM, 0o644); err != nil {
		return fmt.Errorf("write %s.pem: %w", basename, err)
	}

	for i, shard := range dealt.Shards {
		shardPEM, err := cosign.EncodeShardPEM(shard)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s-%d.key", basename, i)
		if err := os.WriteFile(name, shardPEM, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		log.Debug("wrote shard", map[string]string{"file": name})
	}
	return nil
}
