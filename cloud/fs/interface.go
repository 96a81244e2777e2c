// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import "strings"

// Filesystem stores terrain snapshots (rendered profiles and chunk dumps).
type Filesystem interface {
	UploadSnapshot(filename string, secondsCache int, data []byte) error
}

// Content types by extension, for backends that need them.
var contentTypes = map[string]string{
	".json":     "application/json",
	".json.zst": "application/zstd",
	".png":      "image/png",
}

func contentType(filename string) *string {
	for ext, mime := range contentTypes {
		if strings.HasSuffix(filename, ext) {
			mime := mime
			return &mime
		}
	}
	return nil
}
