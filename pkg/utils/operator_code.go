package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// GenerateOperatorCode builds a login identifier for a new operator:
// "OP" + upper-cased prodi + 4 random digits, e.g. OPTI0427.
func GenerateOperatorCode(prodi string) (string, error) {
	return generateOperatorCode(rand.Reader, prodi)
}

func generateOperatorCode(r io.Reader, prodi string) (string, error) {
	n, err := rand.Int(r, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OP%s%04d", strings.ToUpper(strings.TrimSpace(prodi)), n), nil
}
