package internal

// Greeting is printed on startup.
const Greeting = "hello"
