package filestore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/simnote-app/simnote/pkg/types"
)

// dataURIPattern matches inline base64 audio payloads embedded in entry
// content by the recorder widget.
var dataURIPattern = regexp.MustCompile(`data:(audio/[a-zA-Z0-9.+-]+);base64,([A-Za-z0-9+/=]+)`)

// mimeExtensions maps declared audio mime types to attachment file
// extensions. Unknown audio types fall back to .bin.
var mimeExtensions = map[string]string{
	"audio/webm": "webm",
	"audio/mpeg": "mp3",
	"audio/mp3":  "mp3",
	"audio/mp4":  "m4a",
	"audio/aac":  "m4a",
	"audio/ogg":  "ogg",
	"audio/wav":  "wav",
	"audio/wave": "wav",
}

// extractAttachments scans the entry content for inline audio payloads.
// When any are present the attachment directory is cleared and repopulated,
// each payload is decoded to a discrete clip file, and the content is
// rewritten with reference paths. When none are present the content and the
// entry's existing attachment references pass through untouched.
func (s *Store) extractAttachments(entry *types.Entry, base string) (string, []types.AudioFile, error) {
	matches := dataURIPattern.FindAllStringSubmatch(entry.Content, -1)
	if len(matches) == 0 {
		return entry.Content, entry.AudioFiles, nil
	}

	audioDirName := base + audioDirSuffix
	audioDir := filepath.Join(s.dir, audioDirName)
	if err := os.RemoveAll(audioDir); err != nil {
		return "", nil, fmt.Errorf("clearing attachment dir: %w", err)
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating attachment dir: %w", err)
	}

	content := entry.Content
	var audioFiles []types.AudioFile
	for i, m := range matches {
		mimeType, payload := m[1], m[2]
		blob, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decoding clip %d: %w", i+1, err)
		}

		clipName := fmt.Sprintf("clip-%d.%s", i+1, extensionFor(mimeType))
		if err := os.WriteFile(filepath.Join(audioDir, clipName), blob, 0o644); err != nil {
			return "", nil, fmt.Errorf("writing clip %d: %w", i+1, err)
		}

		ref := filepath.ToSlash(filepath.Join(audioDirName, clipName))
		// Replace only the first occurrence so identical payloads embedded
		// twice each get their own clip reference.
		content = strings.Replace(content, m[0], ref, 1)
		audioFiles = append(audioFiles, types.AudioFile{
			Path:     ref,
			MimeType: mimeType,
			Bytes:    int64(len(blob)),
		})
	}
	return content, audioFiles, nil
}

func extensionFor(mimeType string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	return "bin"
}
