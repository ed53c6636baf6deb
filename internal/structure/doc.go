// Package structure holds the data model of a 2D pin-jointed truss.
//
// A [Truss] owns an ordered set of [Node] values and an ordered set of
// [Member] values. Members reference their endpoint nodes by pointer; the
// nodes are shared with the truss node collection and with other members.
//
//   - [Node]: position, optional [Support] and [Load], result fields
//   - [Member]: two endpoints, elastic modulus and area, axial force/stress
//   - [Support]: independent x/y restraints
//   - [Load]: point load given as magnitude and angle in degrees
//
// # Coordinates
//
// Coordinates are y-up. Load angles are measured counter-clockwise from the
// positive x axis, so 90° points up and 270° points down.
//
// # Results
//
// Result fields (displacements, reactions, member force and stress) are
// written by the solver package only. [Truss.ResetResults] zeroes them.
package structure
