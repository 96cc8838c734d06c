package device

/*
 * ESDI - Device and collaborator interfaces
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Interface all emulated devices provide.
type Device interface {
	Reset()
	Shutdown()
}

// Interrupt controller as seen by a device: a numbered line that can be
// asserted or dropped, edge semantics.
type IntrController interface {
	Raise(line int)
	Lower(line int)
}

// DMANoData is returned by the DMA engine when the host side has not
// supplied or consumed a word yet. Devices suspend and retry later.
const DMANoData = -1

// Third party DMA engine. Reads and writes move one 16-bit word per call
// and return DMANoData when the channel cannot transfer.
type DMAEngine interface {
	ChannelRead(channel int) int
	ChannelWrite(channel int, value uint16) int
}
