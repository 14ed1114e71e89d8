package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// IdentityKey derives the deduplication key of an article from its link.
// The hex MD5 digest matches keys already stored by earlier deployments.
func IdentityKey(link string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(link)))
	return hex.EncodeToString(sum[:])
}
