/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package reporterr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrap_NilCauseReturnsNil(t *testing.T) {
	if err := Wrap(Setup, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestIs_MatchesCategoryThroughWrapping(t *testing.T) {
	base := errors.New("dictionary not found")
	wrapped := fmt.Errorf("loading config: %w", Wrap(Setup, base))

	if !Is(wrapped, Setup) {
		t.Fatalf("expected category Setup to be detected, got: %v", wrapped)
	}
	if Is(wrapped, Schema) {
		t.Fatal("expected category Schema to not match")
	}
}

func TestError_MessageIncludesCategory(t *testing.T) {
	err := Wrap(Reassembly, errors.New("flow exceeded max buffer"))
	want := "reassembly: flow exceeded max buffer"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
