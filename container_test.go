package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Container", func() {
	var env *Environment

	BeforeEach(func() {
		env = New()
	})

	It("rejects non-positive amounts", func() {
		c := NewContainer(env, 10, "c")
		Expect(func() { c.Put(0) }).To(Panic())
		Expect(func() { c.Get(-1) }).To(Panic())
	})

	It("admits a put immediately when there is room", func() {
		c := NewContainer(env, 10, "c")
		e := c.Put(4)
		Expect(e.isDone()).To(BeTrue())
		Expect(c.Level()).To(Equal(4))
	})

	It("blocks a get until enough level accumulates, FIFO", func() {
		c := NewContainer(env, 10, "c")

		var firstGot, secondGot int
		first := env.CreateTask("first", func(p *Process) error {
			v, _ := p.Await(c.Get(5))
			firstGot = v.(int)
			return nil
		})
		second := env.CreateTask("second", func(p *Process) error {
			v, _ := p.Await(c.Get(5))
			secondGot = v.(int)
			return nil
		})
		env.Schedule(first, "first")
		env.Schedule(second, "second")

		env.scheduleFire(3, func(now VTime) { c.Put(5) })
		env.scheduleFire(5, func(now VTime) { c.Put(5) })

		Expect(env.Run()).To(Succeed())
		Expect(firstGot).To(Equal(0))
		Expect(secondGot).To(Equal(0))
		Expect(c.Level()).To(Equal(0))
	})

	// S2. Container flow: capacity 15, initial 0. Putter at t=5 puts 4; at
	// t=10 puts 10. Getter at t=6 gets 3 (succeeds, level 1); tries to get 9
	// (waits). Expected level trace: (5,4), (6,1), (10,11->2), with the
	// getter resuming at t=10 with level 2.
	It("reproduces the S2 container flow scenario", func() {
		c := NewContainer(env, 15, "c")

		var levelAt5, levelAt6, getterResumedLevel int
		var getterResumedAt VTime = -1

		env.scheduleFire(5, func(now VTime) {
			c.Put(4)
			levelAt5 = c.Level()
		})

		env.scheduleFire(6, func(now VTime) {
			c.Get(3)
			levelAt6 = c.Level()

			getter := env.CreateTask("getter", func(p *Process) error {
				v, _ := p.Await(c.Get(9))
				getterResumedAt = env.Now()
				getterResumedLevel = v.(int)
				return nil
			})
			env.Schedule(getter, "getter")
		})

		env.scheduleFire(10, func(now VTime) { c.Put(10) })

		Expect(env.Run()).To(Succeed())

		Expect(levelAt5).To(Equal(4))
		Expect(levelAt6).To(Equal(1))
		Expect(getterResumedAt).To(Equal(VTime(10)))
		Expect(getterResumedLevel).To(Equal(2))
		Expect(c.Level()).To(Equal(2))
	})

	It("never exceeds capacity or goes negative", func() {
		c := NewContainer(env, 5, "c")
		c.Put(5)
		Expect(c.Level()).To(BeNumerically(">=", 0))
		Expect(c.Level()).To(BeNumerically("<=", c.Capacity()))

		blocked := c.Put(1)
		Expect(blocked.isDone()).To(BeFalse())
	})
})
