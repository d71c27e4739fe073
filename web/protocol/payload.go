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

package protocol

type PayloadKind uint8

const (
	PayloadEmpty PayloadKind = iota
	PayloadText
	PayloadBinary
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadText:
		return "Text"
	case PayloadBinary:
		return "Binary"
	default:
		return "Empty"
	}
}

// Payload 响应体，Empty/Text/Binary三者之一，零值为Empty
type Payload struct {
	kind PayloadKind
	text string
	data []byte
}

func EmptyPayload() Payload {
	return Payload{kind: PayloadEmpty}
}

func TextPayload(text string) Payload {
	return Payload{kind: PayloadText, text: text}
}

func BinaryPayload(data []byte) Payload {
	return Payload{kind: PayloadBinary, data: data}
}

func (p Payload) Kind() PayloadKind {
	return p.kind
}

func (p Payload) Text() string {
	return p.text
}

func (p Payload) Binary() []byte {
	return p.data
}

func (p Payload) Len() int {
	switch p.kind {
	case PayloadText:
		return len(p.text)
	case PayloadBinary:
		return len(p.data)
	default:
		return 0
	}
}

func (p Payload) appendTo(dst []byte) []byte {
	switch p.kind {
	case PayloadText:
		return append(dst, p.text...)
	case PayloadBinary:
		return append(dst, p.data...)
	default:
		return dst
	}
}
