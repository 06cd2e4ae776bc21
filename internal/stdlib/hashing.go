package stdlib

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func registerHashing(b *builder) {
	hashFn := func(name string, sum func([]byte) []byte) {
		b.fn(name, []string{"s"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
			s, err := interp.AsString(i, a[0], "std."+name)
			if err != nil {
				return nil, err
			}
			return interp.StringValue(hex.EncodeToString(sum([]byte(s.Go())))), nil
		})
	}
	hashFn("md5", func(b []byte) []byte { s := md5.Sum(b); return s[:] })
	hashFn("sha1", func(b []byte) []byte { s := sha1.Sum(b); return s[:] })
	hashFn("sha256", func(b []byte) []byte { s := sha256.Sum256(b); return s[:] })
	hashFn("sha512", func(b []byte) []byte { s := sha512.Sum512(b); return s[:] })
	hashFn("sha3", func(b []byte) []byte { s := sha3.Sum256(b); return s[:] })
}
