package forbiddencalls

import (
	"fmt"
	"log"
	"os"
)

func SomePanicFunction() {
	panic("this is forbidden") // want "panic is forbidden"
}

func SomeLogFatalFunction() {
	log.Fatal("this is forbidden") // want "log.Fatal is forbidden outside main function"
}

func SomeOsExitFunction() {
	os.Exit(1) // want "os.Exit is forbidden outside main function"
}

func SomePrintFunction() {
	fmt.Println("stdout output") // want "fmt.Println is forbidden, use the zerolog logger"
	fmt.Printf("value: %d\n", 1) // want "fmt.Printf is forbidden, use the zerolog logger"
}

func AllowedFmtUsage() string {
	return fmt.Sprintf("value: %d", 1) // No want
}

func MultipleCallsFunction() {
	panic("panic 1")   // want "panic is forbidden"
	log.Fatal("fatal") // want "log.Fatal is forbidden outside main function"
	os.Exit(0)         // want "os.Exit is forbidden outside main function"
}
