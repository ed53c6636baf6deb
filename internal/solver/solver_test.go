package solver_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/truss2d/internal/solver"
	"github.com/san-kum/truss2d/internal/structure"
)

var _ = Describe("Solver", func() {
	var s *solver.Solver

	BeforeEach(func() {
		s = solver.New()
	})

	Describe("statically determinate triangle", func() {
		var (
			t      *structure.Truss
			result *solver.Result
		)

		BeforeEach(func() {
			t = triangle(1000, 270)
			var err error
			result, err = s.Solve(t)
			Expect(err).NotTo(HaveOccurred())
		})

		It("balances applied load and reactions", func() {
			var fx, fy float64
			for _, n := range t.Nodes {
				lx, ly := n.Load.Components()
				fx += lx + n.ReactionX
				fy += ly + n.ReactionY
			}
			Expect(fx).To(BeNumerically("~", 0, 1e-3))
			Expect(fy).To(BeNumerically("~", 0, 1e-3))

			sum := result.ReactionSum()
			Expect(sum.Y).To(BeNumerically("~", 1000, 1e-3))
		})

		It("splits the vertical reaction evenly", func() {
			Expect(t.Node(1).ReactionY).To(BeNumerically("~", 500, 1e-3))
			Expect(t.Node(2).ReactionY).To(BeNumerically("~", 500, 1e-3))
			Expect(t.Node(1).ReactionX).To(Equal(0.0))
		})

		It("matches closed-form member forces", func() {
			diag := 1000 / (2 * math.Sin(math.Pi/4))
			Expect(t.Member(1).Force).To(BeNumerically("~", 500, 1e-3))
			Expect(t.Member(2).Force).To(BeNumerically("~", -diag, 1e-3))
			Expect(t.Member(3).Force).To(BeNumerically("~", -diag, 1e-3))

			Expect(t.Member(1).State()).To(Equal(structure.Tension))
			Expect(t.Member(2).State()).To(Equal(structure.Compression))
			Expect(t.Member(2).Stress).To(BeNumerically("~", -diag/area, 1e-1))
		})

		It("pins restrained displacements to exactly zero", func() {
			Expect(t.Node(1).DisplacementX).To(Equal(0.0))
			Expect(t.Node(1).DisplacementY).To(Equal(0.0))
			Expect(t.Node(2).DisplacementY).To(Equal(0.0))
			Expect(t.Node(2).DisplacementX).To(BeNumerically(">", 0))
		})

		It("deflects the loaded node toward the load", func() {
			Expect(t.Node(3).DisplacementY).To(BeNumerically("<", 0))
			Expect(t.Node(3).DisplacementX).To(BeNumerically("~", t.Node(2).DisplacementX/2, 1e-12))
		})

		It("reports free and restrained dof counts", func() {
			Expect(result.FreeDOFs).To(Equal(3))
			Expect(result.RestrainedDOFs).To(Equal(3))
			Expect(result.Condition).To(BeNumerically(">=", 1))
		})

		It("writes no reaction on the roller's free axis", func() {
			Expect(result.Reactions[2].X).To(Equal(0.0))
			Expect(t.Node(2).ReactionX).To(Equal(0.0))
			Expect(result.Reactions).NotTo(HaveKey(3))
		})
	})

	Describe("symmetric triangle between two pins", func() {
		It("leaves the horizontal member unloaded", func() {
			t := triangle(1000, 270)
			t.Node(2).SetSupport(structure.Pin())

			_, err := s.Solve(t)
			Expect(err).NotTo(HaveOccurred())

			Expect(t.Member(1).Force).To(BeNumerically("~", 0, 1e-6))
			Expect(t.Member(1).State()).To(Equal(structure.ZeroForce))
			Expect(math.Abs(t.Member(2).Force)).To(BeNumerically("~", math.Abs(t.Member(3).Force), 1e-6))
			Expect(t.Node(1).ReactionX).To(BeNumerically("~", -t.Node(2).ReactionX, 1e-6))
		})
	})

	Describe("assembly", func() {
		It("superposes parallel members", func() {
			single := triangle(1000, 270)
			double := triangle(1000, 270)
			n1, n2 := double.Node(1), double.Node(2)
			double.AddMember(structure.NewMember(4, n1, n2, steelE, area))

			_, err := s.Solve(single)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Solve(double)
			Expect(err).NotTo(HaveOccurred())

			Expect(double.Member(1).Force).To(BeNumerically("~", 250, 1e-3))
			Expect(double.Member(4).Force).To(BeNumerically("~", 250, 1e-3))
			Expect(double.Node(2).DisplacementX).To(BeNumerically("~", single.Node(2).DisplacementX/2, 1e-12))
		})

		It("sums stiffness of members sharing dofs", func() {
			t := triangle(1000, 270)
			t.AddMember(structure.NewMember(4, t.Node(1), t.Node(2), steelE, area))

			K, err := solver.Assemble(t, solver.NewDOFMap(t))
			Expect(err).NotTo(HaveOccurred())

			k := steelE * area / 10
			diag := steelE * area / (5 * math.Sqrt2) / 2
			Expect(K.At(0, 0)).To(BeNumerically("~", 2*k+diag, 1e-3))
			Expect(K.At(0, 2)).To(BeNumerically("~", -2*k, 1e-3))
			Expect(K.At(2, 0)).To(Equal(K.At(0, 2)))
		})

		It("accumulates loads into the load vector", func() {
			t := triangle(1000, 270)
			dofs := solver.NewDOFMap(t)
			F := solver.LoadVector(t, dofs)
			x, y := dofs.Rows(3)
			Expect(F.AtVec(x)).To(BeNumerically("~", 0, 1e-9))
			Expect(F.AtVec(y)).To(BeNumerically("~", -1000, 1e-9))
		})

		It("indexes nodes by position, not by id", func() {
			t := triangle(1000, 270)
			t.Node(1).ID = 100
			dofs := solver.NewDOFMap(t)
			x, y := dofs.Rows(100)
			Expect(x).To(Equal(0))
			Expect(y).To(Equal(1))
			x, y = dofs.Rows(3)
			Expect(x).To(Equal(4))
			Expect(y).To(Equal(5))
		})
	})

	Describe("post-processing", func() {
		It("reports zero stress for a member without area", func() {
			t := triangle(1000, 270)
			t.AddMember(structure.NewMember(4, t.Node(1), t.Node(2), steelE, 0))

			r, err := s.Solve(t)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Members[4].Elongation).To(BeNumerically(">", 0))
			Expect(t.Member(4).Force).To(Equal(0.0))
			Expect(t.Member(4).Stress).To(Equal(0.0))
			Expect(t.Member(1).Force).To(BeNumerically("~", 500, 1e-3))
		})

		It("snaps reactions below the tolerance to zero", func() {
			t := triangle(1000, 270)
			r, err := solver.New(solver.WithReactionTolerance(600)).Analyze(t)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Reactions[1].Y).To(Equal(0.0))
			Expect(r.Reactions[2].Y).To(Equal(0.0))

			r, err = solver.New(solver.WithReactionTolerance(400)).Analyze(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Reactions[1].Y).To(BeNumerically("~", 500, 1e-3))
		})

		It("leaves the pin's horizontal reaction at exactly zero under vertical load", func() {
			r, err := s.Analyze(triangle(1000, 270))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Reactions[1].X).To(Equal(0.0))
		})
	})

	Describe("horizontal roller", func() {
		var t *structure.Truss

		BeforeEach(func() {
			n1 := structure.NewNode(1, 0, 0)
			n2 := structure.NewNode(2, 0, 10)
			n3 := structure.NewNode(3, 5, 5)
			n1.SetSupport(structure.Pin())
			n2.SetSupport(structure.RollerX())
			n3.SetLoad(&structure.Load{Magnitude: 1000, Angle: 0})

			t = structure.New(
				[]*structure.Node{n1, n2, n3},
				[]*structure.Member{
					structure.NewMember(1, n1, n2, steelE, area),
					structure.NewMember(2, n2, n3, steelE, area),
					structure.NewMember(3, n3, n1, steelE, area),
				},
			)
		})

		It("restrains only the x axis", func() {
			r, err := s.Solve(t)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.FreeDOFs).To(Equal(3))
			Expect(t.Node(2).DisplacementX).To(Equal(0.0))
			Expect(r.Reactions[2].Y).To(Equal(0.0))
			Expect(t.Node(2).ReactionY).To(Equal(0.0))
		})

		It("carries the overturning moment as a horizontal reaction", func() {
			r, err := s.Solve(t)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Reactions[2].X).To(BeNumerically("~", -500, 1e-3))
			Expect(r.Reactions[1].X).To(BeNumerically("~", -500, 1e-3))
			Expect(r.Reactions[1].Y).To(BeNumerically("~", 0, 1e-3))
		})
	})

	Describe("unit systems", func() {
		steel := func(panels int) *solver.Result {
			r, err := s.Analyze(warren(panels, 5*float64(panels), 4, 1))
			Expect(err).NotTo(HaveOccurred())
			return r
		}

		DescribeTable("solves a soft girder like a steel one",
			func(panels int, modulus float64) {
				t := warren(panels, 5*float64(panels), 4, 1)
				for _, m := range t.Members {
					m.ElasticModulus = modulus
				}

				r, err := s.Analyze(t)
				Expect(err).NotTo(HaveOccurred())

				ref := steel(panels)
				Expect(r.Condition).To(BeNumerically("~", ref.Condition, ref.Condition*1e-6))
				// eps·U on the free rows is not carried by the members.
				tol := 1e-3 * float64(panels)
				Expect(r.ReactionSum().Y).To(BeNumerically("~", float64(panels), tol))
				Expect(r.Reactions[1].Y).To(BeNumerically("~", float64(panels)/2, tol))
			},
			Entry("10 panels, unit modulus", 10, 1.0),
			Entry("10 panels, modulus in GPa", 10, 200.0),
			Entry("40 panels, modulus in GPa", 40, 200.0),
		)

		It("still rejects a soft mechanism", func() {
			t := warren(10, 50, 4, 1)
			for _, m := range t.Members {
				m.ElasticModulus = 1
			}
			t.Node(11).ClearSupport()

			_, err := s.Analyze(t)
			Expect(err).To(MatchError(solver.ErrUnstableStructure))
		})
	})

	Describe("failures", func() {
		It("rejects a zero-length member before solving", func() {
			t := triangle(1000, 270)
			t.Node(2).X, t.Node(2).Y = 0, 0

			_, err := s.Solve(t)
			Expect(err).To(MatchError(solver.ErrDegenerateMember))

			var dme *solver.DegenerateMemberError
			Expect(errors.As(err, &dme)).To(BeTrue())
			Expect(dme.MemberID).To(Equal(1))

			for _, m := range t.Members {
				Expect(m.Force).To(Equal(0.0))
			}
		})

		DescribeTable("rejects under-restrained structures",
			func(configure func(*structure.Truss)) {
				t := triangle(1000, 270)
				configure(t)

				_, err := s.Solve(t)
				Expect(err).To(MatchError(solver.ErrUnstableStructure))

				var use *solver.UnstableStructureError
				Expect(errors.As(err, &use)).To(BeTrue())
				Expect(use.FreeDOFs).To(BeNumerically(">", 0))
				Expect(t.Node(3).DisplacementY).To(Equal(0.0))
			},
			Entry("no supports", func(t *structure.Truss) {
				t.Node(1).ClearSupport()
				t.Node(2).ClearSupport()
			}),
			Entry("one restrained axis", func(t *structure.Truss) {
				t.Node(1).SetSupport(structure.Roller())
				t.Node(2).ClearSupport()
			}),
			Entry("a single pin", func(t *structure.Truss) {
				t.Node(2).ClearSupport()
			}),
			Entry("two rollers", func(t *structure.Truss) {
				t.Node(1).SetSupport(structure.Roller())
			}),
			Entry("free support objects", func(t *structure.Truss) {
				t.Node(1).SetSupport(structure.Free())
				t.Node(2).SetSupport(structure.Free())
			}),
		)

		It("detects mechanisms in soft structures", func() {
			t := triangle(1, 270)
			for _, m := range t.Members {
				m.ElasticModulus, m.Area = 1, 1
			}
			t.Node(2).ClearSupport()

			_, err := s.Solve(t)
			Expect(err).To(MatchError(solver.ErrUnstableStructure))
		})

		It("detects a disconnected node", func() {
			t := triangle(1000, 270)
			t.AddNode(structure.NewNode(4, 20, 20))

			_, err := s.Solve(t)
			Expect(err).To(MatchError(solver.ErrUnstableStructure))
		})

		It("rejects an empty truss", func() {
			_, err := s.Solve(&structure.Truss{})
			Expect(err).To(MatchError(structure.ErrEmptyTruss))
		})
	})

	Describe("Analyze", func() {
		It("does not modify the truss", func() {
			t := triangle(1000, 270)
			r, err := s.Analyze(t)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Members[1].Force).To(BeNumerically("~", 500, 1e-3))
			Expect(t.Member(1).Force).To(Equal(0.0))
			Expect(t.Node(3).DisplacementY).To(Equal(0.0))

			r.Apply(t)
			Expect(t.Member(1).Force).To(BeNumerically("~", 500, 1e-3))
		})

		It("handles a fully restrained structure", func() {
			t := triangle(1000, 270)
			for _, n := range t.Nodes {
				n.SetSupport(structure.Pin())
			}
			r, err := s.Analyze(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.FreeDOFs).To(Equal(0))
			Expect(r.Reactions[3].Y).To(BeNumerically("~", 1000, 1e-6))
			for _, mf := range r.Members {
				Expect(mf.Force).To(Equal(0.0))
			}
		})

		It("reports the largest displacement", func() {
			t := triangle(1000, 270)
			r, err := s.Analyze(t)
			Expect(err).NotTo(HaveOccurred())
			id, mag := r.MaxDisplacement()
			Expect(id).To(Equal(3))
			Expect(mag).To(BeNumerically(">", 0))
		})
	})

	Describe("linearity", func() {
		It("scales results with the load", func() {
			a, err := s.Analyze(triangle(1000, 250))
			Expect(err).NotTo(HaveOccurred())
			b, err := s.Analyze(triangle(3000, 250))
			Expect(err).NotTo(HaveOccurred())

			for id, f := range a.Members {
				Expect(b.Members[id].Force).To(BeNumerically("~", 3*f.Force, 1e-6))
			}
		})

		It("solves a multi-panel girder in equilibrium", func() {
			t := warren(6, 30, 4, 2000)
			r, err := s.Solve(t)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.ReactionSum().Y).To(BeNumerically("~", 12000, 1e-2))
			Expect(t.Nodes[0].ReactionY).To(BeNumerically("~", 6000, 1e-2))
			Expect(t.Member(1).Force).To(BeNumerically(">", 0))
		})
	})

	It("uses the package-level entry point", func() {
		t := triangle(1000, 270)
		_, err := solver.Solve(t)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Member(1).Force).To(BeNumerically("~", 500, 1e-3))
	})
})
