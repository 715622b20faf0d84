package protected_test

import (
	"errors"
	"fmt"

	"github.com/thetarby/protected"
)

func Example() {
	owner := protected.New[uint32](42)
	defer owner.Close()

	alice, _ := owner.CreateUser(0)
	defer alice.Close()
	bob, _ := owner.CreateUser(1)
	defer bob.Close()

	_ = alice.Update(func(v *int) { *v = 44 })
	_ = bob.View(func(v int) { fmt.Println("bob reads", v) })

	owner.RemoveUser(1)
	if _, err := bob.Read(); errors.Is(err, protected.ErrAccessDenied) {
		fmt.Println("bob:", err)
	}

	// Output:
	// bob reads 44
	// bob: user 1: access denied
}

func ExampleOwner_CreateUser() {
	owner := protected.New[string]([]string{})
	defer owner.Close()

	first, ok := owner.CreateUser("worker")
	fmt.Println(ok)
	_, ok = owner.CreateUser("worker")
	fmt.Println(ok)

	first.Close()
	again, ok := owner.CreateUser("worker")
	fmt.Println(ok)
	again.Close()

	// Output:
	// true
	// false
	// true
}
