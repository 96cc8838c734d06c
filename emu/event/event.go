package event

/*
 * ESDI - Event scheduler
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

type Callback = func(iarg int)

// Times are in microseconds of simulated time. Events are kept as a delta
// queue: each entry holds the time remaining after the entry before it.
type Event struct {
	time float64  // Microseconds to event
	dev  D.Device // Device event is registered to
	cb   Callback // Function to callback
	iarg int      // Integer argument
	prev *Event
	next *Event
}

// Each machine owns one Scheduler so that several machines can coexist
// in one process.
type Scheduler struct {
	head *Event
	tail *Event
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add an event. A time of zero processes the event immediately.
func (sched *Scheduler) Add(dev D.Device, cb Callback, time float64, iarg int) {
	if time <= 0 {
		cb(iarg)
		return
	}

	ev := &Event{dev: dev, cb: cb, time: time, iarg: iarg}

	evptr := sched.head
	// If empty put on head
	if evptr == nil {
		sched.head = ev
		sched.tail = ev
		return
	}

	// Scan for place to install it
	for evptr != nil {
		// Event before next event
		if ev.time <= evptr.time {
			// Remove current time from next time
			evptr.time -= ev.time
			ev.prev = evptr.prev
			ev.next = evptr
			evptr.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				sched.head = ev
			}
			return
		}
		// Make new event relative to head of list
		ev.time -= evptr.time
		evptr = evptr.next
	}

	// Get here, put it on tail of list
	ev.prev = sched.tail
	sched.tail.next = ev
	sched.tail = ev
}

// Remove the pending event matching device and argument, if any.
func (sched *Scheduler) Cancel(dev D.Device, iarg int) {
	evptr := sched.head

	for evptr != nil {
		if evptr.dev == dev && evptr.iarg == iarg {
			nxt := evptr.next
			// Give remaining time to the next event
			if nxt != nil {
				nxt.time += evptr.time
				nxt.prev = evptr.prev
			} else {
				sched.tail = evptr.prev
			}

			if evptr.prev != nil {
				evptr.prev.next = evptr.next
			} else {
				sched.head = evptr.next
			}
			return
		}
		evptr = evptr.next
	}
}

// True if any event is pending.
func (sched *Scheduler) Pending() bool {
	return sched.head != nil
}

// Advance time, firing any events that come due.
func (sched *Scheduler) Advance(t float64) {
	evptr := sched.head
	if evptr == nil {
		return
	}
	evptr.time -= t
	for evptr != nil && evptr.time <= 0 {
		// Carry any overshoot into the next event.
		remain := evptr.time
		sched.head = evptr.next
		if sched.head != nil {
			sched.head.prev = nil
			sched.head.time += remain
		} else {
			sched.tail = nil
		}
		evptr.cb(evptr.iarg)
		evptr = sched.head
	}
}
