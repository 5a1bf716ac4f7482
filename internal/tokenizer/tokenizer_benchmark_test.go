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

package tokenizer

import "testing"

func BenchmarkParseFIX(b *testing.B) {
	msg := "8=FIX.4.4\x019=112\x0135=8\x0149=SENDER\x0156=TARGET\x0134=10\x0152=20250101-12:00:00.000\x01" +
		"37=ORDER1\x0111=CL1\x0117=EXEC1\x01150=0\x0139=0\x0155=BTC-USD\x0154=1\x0138=1\x0144=50000\x0110=000\x01"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ParseFIX(msg)
	}
}
