/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package content

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

type Sniffer interface {
	// Classify 根据内容推断MIME类型以及是否为文本
	Classify(data []byte) (mime string, isText bool, err error)
}

// MimeSniffer 基于github.com/gabriel-vasile/mimetype的魔数识别。
// Strict为true时无法识别的内容（application/octet-stream）返回ErrUnclassified
type MimeSniffer struct {
	Strict bool
}

func (s MimeSniffer) Classify(data []byte) (string, bool, error) {
	m := mimetype.Detect(data)
	if m == nil || (s.Strict && m.Is(octetStream)) {
		return "", false, ErrUnclassified
	}
	return m.String(), isText(m), nil
}

func isText(m *mimetype.MIME) bool {
	for p := m; p != nil; p = p.Parent() {
		if strings.HasPrefix(p.String(), "text/") {
			return true
		}
	}
	return false
}
