package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	var env *Environment

	BeforeEach(func() {
		env = New()
	})

	It("admits a put immediately when there is room", func() {
		s := NewStore(env, 2, "s")
		e := s.Put("widget", Low)
		Expect(e.isDone()).To(BeTrue())
		Expect(s.Size()).To(Equal(1))
	})

	It("blocks a put once full", func() {
		s := NewStore(env, 1, "s")
		s.Put("a", Low)
		blocked := s.Put("b", Low)
		Expect(blocked.isDone()).To(BeFalse())
	})

	It("matches a get against a filter, skipping non-matching items", func() {
		s := NewStore(env, 3, "s")
		s.Put(1, Low)
		s.Put(2, Low)
		s.Put(3, Low)

		isEven := func(v any) bool { return v.(int)%2 == 0 }
		e := s.Get(isEven, Low)

		Expect(e.isDone()).To(BeTrue())
		Expect(e.Value()).To(Equal(2))
		Expect(s.Size()).To(Equal(2))
	})

	It("gives High priority waiters precedence over Low at the same instant", func() {
		s := NewStore(env, 2, "s")

		var highGot, lowGot any

		lowGetter := env.CreateTask("low", func(p *Process) error {
			v, _ := p.Await(s.Get(nil, Low))
			lowGot = v
			return nil
		})
		env.Schedule(lowGetter, "low")

		env.scheduleFire(5, func(now VTime) {
			highGetter := env.CreateTask("high", func(p *Process) error {
				v, _ := p.Await(s.Get(nil, High))
				highGot = v
				return nil
			})
			env.Schedule(highGetter, "high")
		})

		env.scheduleFire(10, func(now VTime) {
			s.Put("first", Low)
			s.Put("second", Low)
		})

		Expect(env.Run()).To(Succeed())
		Expect(highGot).To(Equal("first"))
		Expect(lowGot).To(Equal("second"))
	})

	// S4. Priority store: capacity 2. A low-priority getter is issued at
	// t=0 before any items exist; a high-priority getter is issued at t=5;
	// a producer puts two items at t=10. The high-priority getter must
	// receive the first item, the low-priority getter the second, both at
	// t=10.
	It("reproduces the S4 priority store scenario", func() {
		s := NewStore(env, 2, "s")

		var lowGot, highGot any
		var lowAt, highAt VTime = -1, -1

		lowGetter := env.CreateTask("low", func(p *Process) error {
			v, _ := p.Await(s.Get(nil, Low))
			lowGot = v
			lowAt = env.Now()
			return nil
		})
		env.Schedule(lowGetter, "low")

		env.scheduleFire(5, func(now VTime) {
			highGetter := env.CreateTask("high", func(p *Process) error {
				v, _ := p.Await(s.Get(nil, High))
				highGot = v
				highAt = env.Now()
				return nil
			})
			env.Schedule(highGetter, "high")
		})

		env.scheduleFire(10, func(now VTime) {
			s.Put("item-a", Low)
			s.Put("item-b", Low)
		})

		Expect(env.Run()).To(Succeed())
		Expect(highAt).To(Equal(VTime(10)))
		Expect(lowAt).To(Equal(VTime(10)))
		Expect(highGot).To(Equal("item-a"))
		Expect(lowGot).To(Equal("item-b"))
	})

	It("clones an item that implements Item on put-by-value", func() {
		s := NewStore(env, 1, "s")
		original := &cloneableItem{label: "original"}

		s.Put(original, Low)
		original.label = "mutated-after-put"

		e := s.Get(nil, Low)
		got := e.Value().(*cloneableItem)
		Expect(got.label).To(Equal("original"))
		Expect(got).NotTo(BeIdenticalTo(original))
	})

	It("never exceeds capacity", func() {
		s := NewStore(env, 2, "s")
		s.Put(1, Low)
		s.Put(2, Low)
		Expect(s.Size()).To(BeNumerically("<=", s.Capacity()))

		blocked := s.Put(3, Low)
		Expect(blocked.isDone()).To(BeFalse())
	})
})

type cloneableItem struct {
	label string
}

func (c *cloneableItem) Clone() any {
	cp := *c
	return &cp
}

func (c *cloneableItem) Describe() string {
	return "item:" + c.label
}
