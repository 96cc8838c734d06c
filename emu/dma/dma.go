package dma

/*
 * ESDI - DMA word engine
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

import (
	D "github.com/Spagheta-DSi/86Box/emu/device"
)

const numChannels = 8

// Engine moves 16-bit words between a device and the host side of each
// channel. The host side loads words for the device to read and drains
// words the device has written; when the host side is not keeping up the
// device sees device.DMANoData and retries later. This models the platform
// DMA controller one word at a time, which is all the disk controller
// handshake requires.
type Engine struct {
	channels [numChannels]channel
}

type channel struct {
	toDevice   []uint16 // Words queued for the device to read
	fromDevice []uint16 // Words the device has written
	limit      int      // Most words fromDevice may hold, 0 = unlimited
}

func NewEngine() *Engine {
	return &Engine{}
}

// Device side: read the next word from the channel.
func (eng *Engine) ChannelRead(ch int) int {
	c := &eng.channels[ch&7]
	if len(c.toDevice) == 0 {
		return D.DMANoData
	}
	val := c.toDevice[0]
	c.toDevice = c.toDevice[1:]
	return int(val)
}

// Device side: write a word to the channel.
func (eng *Engine) ChannelWrite(ch int, value uint16) int {
	c := &eng.channels[ch&7]
	if c.limit > 0 && len(c.fromDevice) >= c.limit {
		return D.DMANoData
	}
	c.fromDevice = append(c.fromDevice, value)
	return int(value)
}

// Host side: queue words for the device.
func (eng *Engine) Load(ch int, words []uint16) {
	c := &eng.channels[ch&7]
	c.toDevice = append(c.toDevice, words...)
}

// Host side: collect everything the device has written so far.
func (eng *Engine) Drain(ch int) []uint16 {
	c := &eng.channels[ch&7]
	out := c.fromDevice
	c.fromDevice = nil
	return out
}

// Host side: bound how many device words may sit undrained. Zero removes
// the bound. Used to exercise device suspension.
func (eng *Engine) SetLimit(ch int, limit int) {
	eng.channels[ch&7].limit = limit
}

// Host side: drop anything in flight on the channel.
func (eng *Engine) Clear(ch int) {
	c := &eng.channels[ch&7]
	c.toDevice = nil
	c.fromDevice = nil
}
