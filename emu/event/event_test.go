/*
 * ESDI - Event scheduler test cases
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

package event

import (
	"testing"
)

var stepCount uint64

type device struct {
	iarg int
	time uint64
}

var (
	deviceA device
	deviceB device
	deviceC device
)

// Callbacks, save step count in routine time and set argument to iarg.
func (d *device) callback(iarg int) {
	d.iarg = iarg
	d.time = stepCount
}

func (d *device) Reset() {
}

func (d *device) Shutdown() {
}

// Initialize for each test.
func initTest() *Scheduler {
	stepCount = 0
	deviceA = device{}
	deviceB = device{}
	deviceC = device{}
	return NewScheduler()
}

func TestAddEvent1(t *testing.T) {
	sched := initTest()
	sched.Add(&deviceA, deviceA.callback, 10, 1)
	for _i := 0; _i < 20; _i++ {
		stepCount++
		sched.Advance(1)
	}
	if deviceA.time != 10 {
		t.Errorf("Event did not fire at correct time %d got %d", 10, deviceA.time)
	}
	if deviceA.iarg != 1 {
		t.Errorf("Event did not set data correct %d got %d", 1, deviceA.iarg)
	}
}

// Add two events.
func TestAddEvent2(t *testing.T) {
	sched := initTest()
	sched.Add(&deviceA, deviceA.callback, 10, 1)
	sched.Add(&deviceB, deviceB.callback, 5, 2)
	for _i := 0; _i < 20; _i++ {
		stepCount++
		sched.Advance(1)
	}
	if deviceA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, deviceA.time)
	}
	if deviceA.iarg != 1 {
		t.Errorf("Event A did not set data correct %d got %d", 1, deviceA.iarg)
	}
	if deviceB.time != 5 {
		t.Errorf("Event B did not fire at correct time %d got %d", 5, deviceB.time)
	}
	if deviceB.iarg != 2 {
		t.Errorf("Event B did not set data correct %d got %d", 2, deviceB.iarg)
	}
}

// Events added out of order fire in time order.
func TestAddEvent3(t *testing.T) {
	sched := initTest()
	sched.Add(&deviceA, deviceA.callback, 15, 1)
	sched.Add(&deviceB, deviceB.callback, 5, 2)
	sched.Add(&deviceC, deviceC.callback, 10, 3)
	for _i := 0; _i < 20; _i++ {
		stepCount++
		sched.Advance(1)
	}
	if deviceB.time != 5 {
		t.Errorf("Event B did not fire at correct time %d got %d", 5, deviceB.time)
	}
	if deviceC.time != 10 {
		t.Errorf("Event C did not fire at correct time %d got %d", 10, deviceC.time)
	}
	if deviceA.time != 15 {
		t.Errorf("Event A did not fire at correct time %d got %d", 15, deviceA.time)
	}
}

// An event scheduled with zero time fires immediately.
func TestAddEventNow(t *testing.T) {
	sched := initTest()
	stepCount = 42
	sched.Add(&deviceA, deviceA.callback, 0, 7)
	if deviceA.time != 42 {
		t.Errorf("Immediate event did not fire")
	}
	if deviceA.iarg != 7 {
		t.Errorf("Immediate event did not set data correct %d got %d", 7, deviceA.iarg)
	}
	if sched.Pending() {
		t.Errorf("Immediate event left scheduler pending")
	}
}

// Cancel removes only the matching event and keeps later times intact.
func TestCancelEvent(t *testing.T) {
	sched := initTest()
	sched.Add(&deviceA, deviceA.callback, 10, 1)
	sched.Add(&deviceB, deviceB.callback, 5, 2)
	sched.Cancel(&deviceB, 2)
	for _i := 0; _i < 20; _i++ {
		stepCount++
		sched.Advance(1)
	}
	if deviceB.time != 0 {
		t.Errorf("Cancelled event fired at %d", deviceB.time)
	}
	if deviceA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, deviceA.time)
	}
}

// Cancel of the head event gives its remaining time to the next one.
func TestCancelHead(t *testing.T) {
	sched := initTest()
	sched.Add(&deviceA, deviceA.callback, 5, 1)
	sched.Add(&deviceB, deviceB.callback, 10, 2)
	sched.Cancel(&deviceA, 1)
	for _i := 0; _i < 20; _i++ {
		stepCount++
		sched.Advance(1)
	}
	if deviceA.time != 0 {
		t.Errorf("Cancelled event fired at %d", deviceA.time)
	}
	if deviceB.time != 10 {
		t.Errorf("Event B did not fire at correct time %d got %d", 10, deviceB.time)
	}
}

// Cancel matches on the event argument as well as the device.
func TestCancelArg(t *testing.T) {
	sched := initTest()
	sched.Add(&deviceA, deviceA.callback, 5, 1)
	sched.Cancel(&deviceA, 2)
	for _i := 0; _i < 20; _i++ {
		stepCount++
		sched.Advance(1)
	}
	if deviceA.time != 5 {
		t.Errorf("Event A did not fire at correct time %d got %d", 5, deviceA.time)
	}
}

// A large advance fires everything that came due.
func TestAdvanceAll(t *testing.T) {
	sched := initTest()
	sched.Add(&deviceA, deviceA.callback, 10, 1)
	sched.Add(&deviceB, deviceB.callback, 5, 2)
	stepCount = 1
	sched.Advance(50)
	if deviceA.iarg != 1 || deviceB.iarg != 2 {
		t.Errorf("Advance did not fire all due events")
	}
	if sched.Pending() {
		t.Errorf("Events still pending after advance")
	}
}

// Two schedulers never see each other's events.
func TestSchedulerIsolation(t *testing.T) {
	sched1 := initTest()
	sched2 := NewScheduler()
	sched1.Add(&deviceA, deviceA.callback, 5, 1)
	sched2.Add(&deviceB, deviceB.callback, 5, 2)
	stepCount = 1
	sched1.Advance(10)
	if deviceA.iarg != 1 {
		t.Errorf("Event A did not fire")
	}
	if deviceB.iarg != 0 {
		t.Errorf("Event B fired on the wrong scheduler")
	}
	sched2.Advance(10)
	if deviceB.iarg != 2 {
		t.Errorf("Event B did not fire")
	}
}
