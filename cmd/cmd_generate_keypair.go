package cmd

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/gaze-network/bridge-network/pkg/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

const (
	keypairTypeValidator = "validator"
	keypairTypeAuthority = "authority"
)

type generateKeypairCmdOptions struct {
	Path  string
	Type  string
	Force bool
}

func NewGenerateKeypairCommand() *cobra.Command {
	opts := &generateKeypairCmdOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keypair",
		Short: "Generate a validator (secp256k1) or authority (ed25519) keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateKeypairHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Path, "path", "/data/keys", `Path to save to key pair file`)
	flags.StringVar(&opts.Type, "type", keypairTypeValidator, `Key type, "validator" or "authority"`)
	flags.BoolVar(&opts.Force, "force", false, "Replace existing private key without prompt")

	return cmd
}

type keypair struct {
	private string
	public  string
}

func newKeypair(keyType string) (keypair, error) {
	switch keyType {
	case keypairTypeValidator:
		client, err := crypto.Generate()
		if err != nil {
			return keypair{}, errors.Wrap(err, "generate validator key")
		}
		return keypair{private: client.PrivateKeyHex(), public: client.Address().Hex()}, nil
	case keypairTypeAuthority:
		privateKey, err := solana.NewRandomPrivateKey()
		if err != nil {
			return keypair{}, errors.Wrap(err, "generate authority key")
		}
		return keypair{private: privateKey.String(), public: privateKey.PublicKey().String()}, nil
	default:
		return keypair{}, errors.Wrapf(errs.Unsupported, "%q key type", keyType)
	}
}

func generateKeypairHandler(opts *generateKeypairCmdOptions, cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating %s key pair\n", opts.Type)
	kp, err := newKeypair(opts.Type)
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintf(out, "Public key: %s\n", kp.public)

	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return errors.Wrap(err, "create directory")
	}

	privateKeyPath := path.Join(opts.Path, opts.Type+"_priv.key")
	if _, err := os.Stat(privateKeyPath); err == nil && !opts.Force {
		if !confirmReplace(out, cmd.InOrStdin(), privateKeyPath) {
			fmt.Fprintf(out, "Keypair generation aborted\n")
			return nil
		}
	}

	if err := os.WriteFile(privateKeyPath, []byte(kp.private), 0o600); err != nil {
		return errors.Wrap(err, "write private key file")
	}
	fmt.Fprintf(out, "Private key saved at %s\n", privateKeyPath)

	publicKeyPath := path.Join(opts.Path, opts.Type+"_pub.key")
	if err := os.WriteFile(publicKeyPath, []byte(kp.public), 0o644); err != nil {
		return errors.Wrap(err, "write public key file")
	}
	fmt.Fprintf(out, "Public key saved at %s\n", publicKeyPath)
	return nil
}

func confirmReplace(out io.Writer, in io.Reader, privateKeyPath string) bool {
	fmt.Fprintf(out, "Existing private key found at %s\n[WARNING] THE EXISTING PRIVATE KEY WILL BE LOST\nType [replace] to replace existing private key: ", privateKeyPath)
	var ans string
	_, _ = fmt.Fscanln(in, &ans)
	return ans == "replace"
}
