package js

import (
	"testing"
	"time"
)

func TestViewportSize(t *testing.T) {
	_, e := newStackEngine(t)
	run(t, e, `
		if (innerWidth !== 800) throw new Error("innerWidth: " + innerWidth);
		if (window.innerHeight !== 600) throw new Error("innerHeight: " + window.innerHeight);
	`)
}

func TestGetComputedStyle(t *testing.T) {
	_, e := newStackEngine(t)
	run(t, e, `
		var cs = getComputedStyle(document.getElementById("hero"));
		if (cs.width !== "400px") throw new Error("width: " + cs.width);
		if (cs.getPropertyValue("background-size") !== "cover, 10px 20px") throw new Error("size: " + cs.getPropertyValue("background-size"));
	`)
}

func TestGetBoundingClientRect(t *testing.T) {
	_, e := newStackEngine(t)
	run(t, e, `
		var r = document.getElementById("hero").getBoundingClientRect();
		if (r.width !== 404) throw new Error("width: " + r.width);
		if (r.height !== 204) throw new Error("height: " + r.height);
	`)
}

func TestRequestAnimationFrame(t *testing.T) {
	win, e := newStackEngine(t)
	run(t, e, `
		var stamps = [];
		requestAnimationFrame(function(ts) {
			stamps.push(ts);
			requestAnimationFrame(function(ts2) { stamps.push(ts2); });
		});
	`)
	win.Advance(16 * time.Millisecond)
	run(t, e, `if (stamps.length !== 1 || stamps[0] !== 16) throw new Error("stamps: " + stamps);`)
	win.Advance(16 * time.Millisecond)
	run(t, e, `if (stamps.length !== 2 || stamps[1] !== 32) throw new Error("stamps: " + stamps);`)
}

func TestSetTimeout(t *testing.T) {
	win, e := newStackEngine(t)
	run(t, e, `
		var fired = [];
		setTimeout(function() { fired.push("a"); }, 50);
		var id = setTimeout(function() { fired.push("b"); }, 50);
		clearTimeout(id);
	`)
	win.Advance(40 * time.Millisecond)
	run(t, e, `if (fired.length !== 0) throw new Error("fired early");`)
	win.Advance(10 * time.Millisecond)
	run(t, e, `if (fired.join() !== "a") throw new Error("fired: " + fired.join());`)
}

func TestMouseMoveListener(t *testing.T) {
	win, e := newStackEngine(t)
	run(t, e, `
		var seen = [];
		function onMove(ev) { seen.push(ev.type + ":" + ev.clientX + "," + ev.clientY); }
		document.addEventListener("mousemove", onMove);
		document.addEventListener("mousemove", onMove);
	`)
	win.DispatchPointerMove(10, 20)
	run(t, e, `
		if (seen.join() !== "mousemove:10,20") throw new Error("seen: " + seen.join());
		document.removeEventListener("mousemove", onMove);
	`)
	win.DispatchPointerMove(30, 40)
	run(t, e, `if (seen.length !== 1) throw new Error("listener not removed");`)
}

func TestOnceListener(t *testing.T) {
	win, e := newStackEngine(t)
	run(t, e, `
		var hero = document.getElementById("hero");
		var props = [];
		hero.addEventListener("transitionend", function(ev) { props.push(ev.propertyName); }, {once: true});
	`)
	hero := win.Document().GetElementByID("hero")
	win.DispatchTransitionEnd(hero)
	win.DispatchTransitionEnd(hero)
	run(t, e, `if (props.join() !== "transform") throw new Error("props: " + props.join());`)
}
