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

import (
	"strconv"
	"strings"
)

type Version struct {
	Major int
	Minor int
}

var (
	HTTP10 = Version{Major: 1, Minor: 0}
	HTTP11 = Version{Major: 1, Minor: 1}
)

// ParseVersion 解析 HTTP/<major>.<minor>，只有major时minor为0
func ParseVersion(proto string) (Version, error) {
	parts := strings.Split(proto, "/")
	if len(parts) != 2 || parts[1] == "" {
		return Version{}, NewParseError(MalformedVersion, proto)
	}

	majorStr, minorStr, hasMinor := strings.Cut(parts[1], ".")
	major, err := parseVersionNumber(majorStr)
	if err != nil {
		return Version{}, NewParseError(MalformedVersion, proto)
	}
	minor := 0
	if hasMinor {
		if minor, err = parseVersionNumber(minorStr); err != nil {
			return Version{}, NewParseError(MalformedVersion, proto)
		}
	}
	return Version{Major: major, Minor: minor}, nil
}

func parseVersionNumber(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// String 输出 1.1 这样的形式
func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}
