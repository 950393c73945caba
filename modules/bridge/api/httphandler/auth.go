package httphandler

import (
	"bytes"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"
)

// Signed requests carry the caller identity in these headers. The signature is an
// ed25519 signature by the signer over SignedMessage.
const (
	HeaderSigner    = "X-Bridge-Signer"
	HeaderTimestamp = "X-Bridge-Timestamp"
	HeaderSignature = "X-Bridge-Signature"

	MaxTimestampSkew = 60 * time.Second
)

const localsSigner = "bridge_signer"

// SignedMessage returns the bytes a caller signs: method, path, unix timestamp and body separated by newlines.
func SignedMessage(method, path string, timestamp int64, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(method)
	buf.WriteByte('\n')
	buf.WriteString(path)
	buf.WriteByte('\n')
	buf.WriteString(strconv.FormatInt(timestamp, 10))
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes()
}

// RequireSignature rejects requests without a valid, fresh signature and stores the signer for the handler.
func (h *HttpHandler) RequireSignature(ctx *fiber.Ctx) error {
	signer, err := h.verifySignature(ctx)
	if err != nil {
		return errUnauthenticated(err)
	}
	ctx.Locals(localsSigner, signer)
	return ctx.Next()
}

func (h *HttpHandler) verifySignature(ctx *fiber.Ctx) (solana.PublicKey, error) {
	signerHeader := ctx.Get(HeaderSigner)
	timestampHeader := ctx.Get(HeaderTimestamp)
	signatureHeader := ctx.Get(HeaderSignature)
	if signerHeader == "" || timestampHeader == "" || signatureHeader == "" {
		return solana.PublicKey{}, errors.New("missing signature headers")
	}

	signer, err := solana.PublicKeyFromBase58(signerHeader)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "invalid signer")
	}
	timestamp, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "invalid timestamp")
	}
	skew := h.now().Sub(time.Unix(timestamp, 0))
	if skew > MaxTimestampSkew || skew < -MaxTimestampSkew {
		return solana.PublicKey{}, errors.Errorf("timestamp is %s away from server time", skew)
	}
	signature, err := solana.SignatureFromBase58(signatureHeader)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "invalid signature encoding")
	}

	message := SignedMessage(ctx.Method(), ctx.Path(), timestamp, ctx.Body())
	if !signature.Verify(signer, message) {
		return solana.PublicKey{}, errors.New("signature verification failed")
	}
	return signer, nil
}

func signerFromLocals(ctx *fiber.Ctx) solana.PublicKey {
	signer, _ := ctx.Locals(localsSigner).(solana.PublicKey)
	return signer
}
