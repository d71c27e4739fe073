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

package tools

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type TestConfig struct {
	Name    string        `yaml:"name" default:"test"`
	Age     int           `yaml:"age" default:"30"`
	Age2    int8          `yaml:"age2" default:"1"`
	Money   float64       `yaml:"money" default:"1.231321"`
	Timeout time.Duration `yaml:"timeout" default:"20s"`
	Size    uint32        `yaml:"size" default:"1024"`
	Test    *TestConfig1  `yaml:"test1"`
	Test2   TestConfig1   `yaml:"test2"`
	PtrInt  *int          `yaml:"ptrInt" default:"1"`
	Str1    *string       `yaml:"str1" default:"test"`
	d       string        `yaml:"d" default:"test"` // test case: no can set
}

type TestConfig1 struct {
	Name1 string  `yaml:"name" default:"test1"`
	Age   int     `yaml:"age" default:"30"`
	Money float64 `yaml:"money" default:"1.231321"`
}

func TestSetDefaultValue(t *testing.T) {
	config := &TestConfig{Age: 18, Test: &TestConfig1{}}
	err := DoTagFunc(config, []FnObj{{Fn: SetDefaultValueIfNil}})
	assert.Nil(t, err)

	assert.Equal(t, "test", config.Name)
	assert.Equal(t, 18, config.Age)
	assert.Equal(t, int8(1), config.Age2)
	assert.Equal(t, 1.231321, config.Money)
	assert.Equal(t, 20*time.Second, config.Timeout)
	assert.Equal(t, uint32(1024), config.Size)
	assert.Equal(t, "test1", config.Test.Name1)
	assert.Equal(t, 30, config.Test2.Age)
	assert.Equal(t, 1, *config.PtrInt)
	assert.Equal(t, "test", *config.Str1)
	assert.Equal(t, "", config.d)
}

func TestDoTagFuncNeedPointer(t *testing.T) {
	assert.NotNil(t, DoTagFunc(TestConfig{}, []FnObj{{Fn: SetDefaultValueIfNil}}))
	assert.Nil(t, DoTagFunc(nil, []FnObj{{Fn: SetDefaultValueIfNil}}))
}

func TestBadDefaultValue(t *testing.T) {
	type bad struct {
		Timeout time.Duration `default:"ten"`
	}
	assert.NotNil(t, DoTagFunc(&bad{}, []FnObj{{Fn: SetDefaultValueIfNil}}))
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.yaml")
	content := "name: yaml\ntimeout: 5s\ntest2:\n  age: 40\n"
	assert.Nil(t, os.WriteFile(filename, []byte(content), 0644))

	config := &TestConfig{}
	assert.Nil(t, LoadConfig(filename, config))
	assert.Equal(t, "yaml", config.Name)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, 40, config.Test2.Age)
	assert.Equal(t, "test1", config.Test2.Name1)
	assert.Equal(t, 30, config.Age)

	assert.NotNil(t, LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), config))
}
