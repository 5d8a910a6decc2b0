// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package synth

import (
	"fmt"
	"strings"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

func (pe *programEmitter) emitStatement(w *strings.Builder, stmt ram.Statement) {
	switch s := stmt.(type) {
	case *ram.Sequence:
		for _, c := range s.Children {
			pe.emitStatement(w, c)
		}
	case *ram.Parallel:
		pe.emitParallelStatement(w, s)
	case *ram.Loop:
		pe.needsIter = true
		w.WriteString("iter = 0;\nfor(;;) {\n")
		pe.emitStatement(w, s.Body)
		w.WriteString("iter++;\n}\niter = 0;\n")
	case *ram.Exit:
		w.WriteString("if (")
		pe.emitCondition(w, s.Condition)
		w.WriteString(") break;\n")
	case *ram.Swap:
		fmt.Fprintf(w, "std::swap(%s, %s);\n", pe.s.mint.RelationHostID(s.Left), pe.s.mint.RelationHostID(s.Right))
	case *ram.Extend:
		fmt.Fprintf(w, "%s->extend(*%s);\n", pe.s.mint.RelationHostID(s.Target), pe.s.mint.RelationHostID(s.Source))
	case *ram.Clear:
		relID := pe.s.mint.RelationHostID(s.Relation)

		if s.Relation.Temporary {
			fmt.Fprintf(w, "if (!isHintsProfilingEnabled()) { %s->purge(); }\n", relID)
		} else {
			fmt.Fprintf(w, "if (!isHintsProfilingEnabled() && performIO) { %s->purge(); }\n", relID)
		}
	case *ram.Load:
		pe.emitIO(w, "load", s.Relation, s.Directive)
	case *ram.Store:
		pe.emitIO(w, "store", s.Relation, s.Directive)
	case *ram.LogSize:
		fmt.Fprintf(w, "ProfileEventSingleton::instance().makeQuantityEvent(%q, %s->size(), 0);\n",
			s.Message, pe.s.mint.RelationHostID(s.Relation))
	case *ram.LogTimer:
		pe.emitLogTimer(w, s.Message, "", s.Body)
	case *ram.LogRelationTimer:
		pe.emitLogTimer(w, s.Message, pe.s.mint.RelationHostID(s.Relation), s.Body)
	case *ram.DebugInfo:
		fmt.Fprintf(w, "// %s\n", s.Message)
		pe.emitStatement(w, s.Body)
	case *ram.Query:
		pe.emitQuery(w, s)
	default:
		panic(fmt.Sprintf("synth: unsupported node type %T", stmt))
	}
}

func (pe *programEmitter) emitParallelStatement(w *strings.Builder, p *ram.Parallel) {
	switch len(p.Children) {
	case 0:
		return
	case 1:
		pe.emitStatement(w, p.Children[0])
	default:
		w.WriteString("SECTIONS_START;\n")

		for _, c := range p.Children {
			w.WriteString("SECTION_START;\n")
			pe.emitStatement(w, c)
			w.WriteString("SECTION_END;\n")
		}

		w.WriteString("SECTIONS_END;\n")
	}
}

func (pe *programEmitter) emitLogTimer(w *strings.Builder, message, relID string, body ram.Statement) {
	fmt.Fprintf(w, "{\n Logger logger(%q, iter);\n", message)
	pe.emitStatement(w, body)

	if relID != "" {
		fmt.Fprintf(w, " logger.setRelationSize(%s->size());\n", relID)
	}

	w.WriteString("}\n")
}

func (pe *programEmitter) emitIO(w *strings.Builder, kind string, rel *ram.Relation, dir ram.IODirective) {
	w.WriteString("if (performIO) {\n")
	w.WriteString("std::map<std::string, std::string> ioDirectives;\n")

	for k, v := range dir.Options {
		fmt.Fprintf(w, "ioDirectives[%q] = %q;\n", k, v)
	}

	if dir.Options["IO"] == "file" || dir.Options["IO"] == "" {
		w.WriteString("if (!ioDirectives.count(\"filename\") || ioDirectives[\"filename\"].front() != '/') {\n")

		if kind == "load" {
			w.WriteString("ioDirectives[\"filename\"] = inputDirectory + \"/\" + ioDirectives[\"filename\"];\n")
		} else {
			w.WriteString("ioDirectives[\"filename\"] = outputDirectory + \"/\" + ioDirectives[\"filename\"];\n")
		}

		w.WriteString("}\n")
	}

	relID := pe.s.mint.RelationHostID(rel)

	if kind == "load" {
		w.WriteString("try {\n")
		fmt.Fprintf(w, "IOSystem::getInstance().getReader(ioDirectives, symTable, recordTable)->readAll(*%s);\n", relID)
		w.WriteString("} catch (std::exception& e) { std::cerr << \"Error loading data: \" << e.what() << '\\n'; }\n")
	} else {
		w.WriteString("try {\n")
		fmt.Fprintf(w, "IOSystem::getInstance().getWriter(ioDirectives, symTable, recordTable)->writeAll(*%s);\n", relID)
		w.WriteString("} catch (std::exception& e) { std::cerr << \"Error storing data: \" << e.what() << '\\n'; exit(1); }\n")
	}

	w.WriteString("}\n")
}
