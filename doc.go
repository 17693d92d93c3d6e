// Package arbor is a retained-mode GUI scene graph for [Ebitengine].
//
// Arbor owns the element tree, orders it by priority, resolves alignment and
// size policies, composites nested clip regions through a stencil protocol,
// and arbitrates pointer and keyboard input between overlapping elements.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := arbor.NewScene()
//	ok := arbor.NewButton("ok", 120, 32)
//	ok.Alignment = arbor.AlignCenter
//	ok.OnClick = func(ctx arbor.PointerContext) { fmt.Println("clicked") }
//	scene.Add(ok)
//	arbor.Run(scene, arbor.RunConfig{Title: "Demo", Width: 640, Height: 480})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.DrawScreen] directly.
//
// # Elements and priority
//
// Every widget is an [Element]. Top-level elements are added with
// [Scene.Add]; children with [Element.AddChild]. Every element in the tree is
// registered with the scene and kept sorted by priority, which is both the
// draw order (low first) and the input order (high first). A child always
// sits above its parent: changing a parent's priority moves every descendant
// by the same delta on the next tick. [PrioritySnap] pins an element above or
// below everything else, globally or among its parent's subtree.
//
// # Layout
//
// [Alignment] places an element against the edges of its parent (or the
// viewport), and [SizePolicy] stretches it to fill the parent on either axis,
// both with per-axis margins. Geometry is resolved every tick, parents first.
//
// # Clipping
//
// An element with [Element.SetClip] is drawn only inside the borderless shape
// of every clipping ancestor. The [Compositor] builds this with a stencil
// buffer on any [Target]: the GPU-backed [EbitenTarget] or the software
// [Canvas] used for headless rendering and tests. Hit testing honors the same
// regions through [IntersectedClipArea].
//
// # Input
//
// Each tick the scene picks the caught element (the topmost element under
// the pointer that accepts input), runs every element's [MouseClickState]
// machine, and dispatches Enter, Leave, Down, Up, Click, and Scroll events.
// An element that starts a press holds capture until the button is released.
// Keyboard focus follows [Scene.Focus], Tab and Shift+Tab, and Escape.
//
// # Configuration and tooling
//
// [Config] can be loaded from YAML or TOML and hot-reloaded with
// [WatchConfig]. [Scene.DumpTree] prints the tree, [Scene.Screenshot]
// captures frames as PNG, the Inject methods and [LoadScript] drive a scene
// without a window, and tweens (via [gween]) animate named element
// properties. Interaction events can be forwarded to an ECS world through
// [EntityStore] (see the [Donburi] adapter in arbor/ecs).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package arbor
