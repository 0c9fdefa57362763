// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package bdd implements Reduced Ordered Binary Decision Diagrams (ROBDD), a
data structure used to represent Boolean (or small-integer-valued) functions
over a fixed, ordered set of variables.

A Store owns the node arena, the content-addressed unicity table, and the
memoized AND/OR/ITE operator caches. Every Node returned by a Store method
carries exactly one reference that the caller must eventually release with
Decref, unless it is immediately consumed by another Store call (which
follows the same convention for its arguments).

Unlike a general-purpose BDD package, this one does not implement negation
as a first-class citizen of its public contract beyond what the ipset
package needs (Not is kept because removal and complementation rely on it),
and it does not implement existential quantification or variable renaming:
the only operations an IP set or IP map ever needs are AND, OR and ITE,
plus NOT for set removal.
*/
package bdd
