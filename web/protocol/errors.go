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

import "fmt"

type ParseErrorKind uint8

const (
	UnknownMethod ParseErrorKind = iota + 1
	MalformedRequestLine
	MalformedVersion
	MalformedHeader
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnknownMethod:
		return "UnknownMethod"
	case MalformedRequestLine:
		return "MalformedRequestLine"
	case MalformedVersion:
		return "MalformedVersion"
	case MalformedHeader:
		return "MalformedHeader"
	default:
		return "Unknown"
	}
}

// ParseError 请求解析失败，Detail为出错的token或行
type ParseError struct {
	Kind   ParseErrorKind
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return "parse request failed: " + e.Kind.String()
	}
	return fmt.Sprintf("parse request failed: %s '%s'", e.Kind.String(), e.Detail)
}

// Is 按Kind比较，用于errors.Is(err, ErrMalformedHeader)
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewParseError(kind ParseErrorKind, detail string) *ParseError {
	return &ParseError{Kind: kind, Detail: detail}
}

var (
	ErrUnknownMethod        = &ParseError{Kind: UnknownMethod}
	ErrMalformedRequestLine = &ParseError{Kind: MalformedRequestLine}
	ErrMalformedVersion     = &ParseError{Kind: MalformedVersion}
	ErrMalformedHeader      = &ParseError{Kind: MalformedHeader}
)
