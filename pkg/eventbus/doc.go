// Package eventbus defines the events exchanged by hackathon workers and the
// unbounded channel that carries them.
//
// # Events
//
// Three event kinds exist:
//
//   - new_idea: an Idea produced by an idea producer, naming how many packages
//     a student must collect before building it
//   - out_of_ideas: a termination signal; the student that receives it stops
//   - package_ready: a Package produced by a package producer
//
// # Lanes
//
// The bus keeps two FIFO lanes. The idea lane carries new_idea and
// out_of_ideas, the package lane carries package_ready. Send routes an event
// to its lane by kind; receivers choose the lane they block on. A student
// waiting for its next idea therefore never dequeues a package, and a
// student collecting packages never dequeues someone else's idea.
//
// Each lane is unbounded, multi-producer and multi-consumer. An event is
// delivered to exactly one receiver. Ordering holds per sender: events sent
// by one goroutine are received in the order they were sent.
//
// # Backends
//
// MemoryBus keeps both lanes in process. RedisBus stores them as Redis lists
// so producers and students can share a queue through an external server.
// All Redis keys are namespaced by run ID:
//
//	hackathon:{run_id}:ideas      list of JSON-encoded idea lane events
//	hackathon:{run_id}:packages   list of JSON-encoded package lane events
//	hackathon:{run_id}:summary    hash holding the run's final checksums
package eventbus
