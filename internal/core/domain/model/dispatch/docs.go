// Package dispatch contains the delivery job aggregate.
//
// A Job is created when a sub-order goes out for delivery and is broadcast to
// the workers available at that moment. Workers who become available later are
// appended to the candidate set, so the broadcast set only grows. The first
// worker to claim the job wins; everyone else gets the offer withdrawn.
package dispatch
