// Package ecs forwards arbor interaction events into a [Donburi] world.
//
// A scene reports pointer events (mouse-enter, mouse-leave, mouse-down,
// mouse-up, click, scroll), focus changes (focus, blur), and key presses on
// the focused element. [NewDonburiStore] publishes each one as an
// [arbor.InteractionEvent] on [InteractionEventType]; systems subscribe to
// it and call ProcessEvents once per tick:
//
//	scene.SetEntityStore(ecs.NewDonburiStore(world, arbor.EventClick, arbor.EventKey))
//	ecs.InteractionEventType.Subscribe(world, onInteraction)
//
// An element names the entity it stands for in [arbor.Element.EntityID], and
// every event carries it back so a system can route events without a lookup.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
