package mca

/*
 * ESDI - Micro Channel setup bus
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
	"errors"
)

const (
	numSlots = 8

	// Setup register at port 0x96: bit 3 enables card setup for the slot
	// in the low three bits.
	SetupPort   = 0x96
	setupEnable = 0x08
	setupSlot   = 0x07

	// POS registers appear at 0x100-0x107 while a slot is in setup.
	POSBase = 0x100
)

// Card is the adapter side of the setup protocol. POS ports are passed as
// bus addresses (0x100 and up); cards ignore writes below their
// configuration registers.
type Card interface {
	POSRead(port int) uint8
	POSWrite(port int, val uint8)
	Feedback() uint8
	Reset()
}

// Bus dispatches setup accesses to the card in the selected slot.
type Bus struct {
	slots [numSlots]Card
	setup int // Slot in setup, -1 when none
}

func New() *Bus {
	return &Bus{setup: -1}
}

// Install a card in the first free slot.
func (bus *Bus) Add(card Card) error {
	for i := range bus.slots {
		if bus.slots[i] == nil {
			bus.slots[i] = card
			return nil
		}
	}
	return errors.New("mca: no free slot")
}

// Install a card in a fixed slot. Planar devices claim their slot this way.
func (bus *Bus) AddToSlot(card Card, slot int) error {
	if slot < 0 || slot >= numSlots {
		return errors.New("mca: slot out of range")
	}
	if bus.slots[slot] != nil {
		return errors.New("mca: slot occupied")
	}
	bus.slots[slot] = card
	return nil
}

// Slot returns the slot holding card, -1 when not installed.
func (bus *Bus) Slot(card Card) int {
	for i, c := range bus.slots {
		if c == card {
			return i
		}
	}
	return -1
}

// Write the setup register.
func (bus *Bus) SetupWrite(val uint8) {
	if val&setupEnable != 0 {
		bus.setup = int(val & setupSlot)
	} else {
		bus.setup = -1
	}
}

func (bus *Bus) card() Card {
	if bus.setup < 0 {
		return nil
	}
	return bus.slots[bus.setup]
}

// Read a POS register of the slot in setup.
func (bus *Bus) POSRead(port uint16) uint8 {
	if c := bus.card(); c != nil {
		return c.POSRead(int(port))
	}
	return 0xff
}

// Write a POS register of the slot in setup.
func (bus *Bus) POSWrite(port uint16, val uint8) {
	if c := bus.card(); c != nil {
		c.POSWrite(int(port), val)
	}
}

// Channel-check feedback of the slot in setup.
func (bus *Bus) Feedback() uint8 {
	if c := bus.card(); c != nil {
		return c.Feedback()
	}
	return 0
}

// Reset every installed card.
func (bus *Bus) ResetAll() {
	for _, c := range bus.slots {
		if c != nil {
			c.Reset()
		}
	}
}
