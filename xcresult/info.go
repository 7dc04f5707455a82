package xcresult

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-xcode/xcodeproject/serialized"
	"howett.net/plist"
)

// minDocumentMajorVersion is the first bundle format readable with xcresulttool (Xcode 11).
const minDocumentMajorVersion = 3

func majorVersion(document serialized.Object) (int, error) {
	version, err := document.Object("version")
	if err != nil {
		return -1, err
	}

	major, err := version.Value("major")
	if err != nil {
		return -1, err
	}

	switch v := major.(type) {
	case uint64:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return -1, fmt.Errorf("invalid major version type: %T", major)
	}
}

// DocumentMajorVersion reads the bundle format version from the bundle's Info.plist.
func DocumentMajorVersion(xcresultPth string) (int, error) {
	content, err := fileutil.ReadBytesFromFile(filepath.Join(xcresultPth, "Info.plist"))
	if err != nil {
		return -1, err
	}

	var info serialized.Object
	if _, err := plist.Unmarshal(content, &info); err != nil {
		return -1, err
	}

	return majorVersion(info)
}
