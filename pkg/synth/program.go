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

// Component C4: the program emitter, the top-level driver. It emits the
// enclosing class, constructors, relation fields, I/O entry points,
// subroutines and main, invoking the operation emitter (C3) on each
// statement body.
package synth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

// programEmitter accumulates the text of one translation unit. The output
// is a sequence of characters destined for a separate compilation step;
// there is no benefit to modelling it as a typed AST, so a strings.Builder
// accreting text, passed by pointer through the recursive emitters (C2 and
// C3 above), is the chosen representation.
type programEmitter struct {
	s    *Synthesiser
	prog *ram.Program
	out  *strings.Builder

	withSharedLibrary bool
	needsCounter      bool
	needsIter         bool
	userDefinedOps    map[string]*ram.UserDefinedOperator
}

func (pe *programEmitter) emit() {
	pe.userDefinedOps = make(map[string]*ram.UserDefinedOperator)

	// A first pass discovers whether ctr/iter declarations and extern "C"
	// functor forward declarations are needed, without emitting anything:
	// C4 must know this before it opens the class body.
	pe.scanForFlags(pe.prog.Main)
	for _, name := range pe.prog.SubroutineOrder {
		pe.scanForFlags(pe.prog.Subroutines[name])
	}

	classID := "Sf_" + pe.s.mint.HostID(pe.prog.Name)

	pe.emitHeaderIncludes()
	pe.emitExternDecls()
	pe.emitRelationTypes()

	fmt.Fprintf(pe.out, "class %s : public SouffleProgram {\n", classID)
	pe.emitWrappers()
	pe.emitSymbolTableInit()
	pe.emitCounterArrays()
	pe.emitRelationFields()
	pe.emitConstructor(classID)
	pe.emitRunFunction()
	pe.emitEntryPoints()

	if pe.s.Config.ProfilingEnabled() {
		pe.emitDumpFreqs()
	}

	if pe.s.Config.WithProvenance() {
		pe.emitSubroutines()
	}

	pe.out.WriteString("};\n")

	pe.emitFactoryHooks(classID)
	pe.emitMain(classID)
}

func (pe *programEmitter) scanForFlags(stmt ram.Statement) {
	if stmt == nil {
		return
	}

	switch s := stmt.(type) {
	case *ram.Sequence:
		for _, c := range s.Children {
			pe.scanForFlags(c)
		}
	case *ram.Parallel:
		for _, c := range s.Children {
			pe.scanForFlags(c)
		}
	case *ram.Loop:
		pe.needsIter = true
		pe.scanForFlags(s.Body)
	case *ram.LogTimer:
		pe.scanForFlags(s.Body)
	case *ram.LogRelationTimer:
		pe.scanForFlags(s.Body)
	case *ram.DebugInfo:
		pe.scanForFlags(s.Body)
	case *ram.Query:
		ram.WalkOperation(s.Root, func(op ram.Operation) {
			pe.scanExprsIn(op)
		})
	}
}

// scanExprsIn looks for auto-increments and user-defined operators in op,
// recording flags/entries as a side effect without emitting text (a
// throwaway builder absorbs the emitted-but-discarded text from calling the
// real emit methods, so the scan reuses their exact traversal instead of
// duplicating it). It scans a Project's values and the condition of a
// filter, break, choice or aggregate; aggregate targets, range patterns and
// unpack-record references are not scanned.
func (pe *programEmitter) scanExprsIn(op ram.Operation) {
	var sink strings.Builder

	if p, ok := op.(*ram.Project); ok {
		for _, v := range p.Values {
			pe.emitExpr(&sink, v)
		}
	}

	var cond ram.Condition

	switch o := op.(type) {
	case *ram.Filter:
		cond = o.Condition

		if pe.s.Config.ProfilingEnabled() && o.ProfileText != "" {
			pe.s.mint.FreqIndex(o.ProfileText)
		}
	case *ram.Break:
		cond = o.Condition
	case *ram.Choice:
		cond = o.Condition
	case *ram.IndexChoice:
		cond = o.Condition
	case *ram.ParallelChoice:
		cond = o.Condition
	case *ram.ParallelIndexChoice:
		cond = o.Condition
	case *ram.Aggregate:
		cond = o.Condition
	case *ram.IndexAggregate:
		cond = o.Condition
	}

	if cond != nil {
		pe.emitCondition(&sink, cond)
	}
}

func (pe *programEmitter) emitHeaderIncludes() {
	pe.out.WriteString("#include \"souffle/CompiledSouffle.h\"\n")

	if pe.s.Config.WithProvenance() {
		pe.out.WriteString("#include \"souffle/provenance/Explain.h\"\n")
		pe.out.WriteString("#include <mutex>\n")
	}

	if pe.s.Config.LiveProfile {
		pe.out.WriteString("#include \"souffle/profile/Tui.h\"\n")
		pe.out.WriteString("#include <thread>\n")
	}

	pe.out.WriteString("\n")
}

func (pe *programEmitter) emitExternDecls() {
	if len(pe.userDefinedOps) == 0 {
		return
	}

	pe.withSharedLibrary = true

	names := make([]string, 0, len(pe.userDefinedOps))
	for name := range pe.userDefinedOps {
		names = append(names, name)
	}

	sort.Strings(names)

	pe.out.WriteString("extern \"C\" {\n")

	for _, name := range names {
		op := pe.userDefinedOps[name]
		fmt.Fprintf(pe.out, "RamDomain %s(", name)

		for i := range op.Type[:len(op.Type)-1] {
			if i > 0 {
				pe.out.WriteString(", ")
			}

			if op.Type[i] == 'S' {
				pe.out.WriteString("const char*")
			} else {
				pe.out.WriteString("RamDomain")
			}
		}

		pe.out.WriteString(");\n")
	}

	pe.out.WriteString("}\n\n")
}

func (pe *programEmitter) emitRelationTypes() {
	for _, rel := range pe.prog.Relations {
		indices := pe.s.Index.Indexes(rel)
		desc := pe.s.Types.Relation(rel, indices, pe.s.Config.WithProvenance())

		if pe.s.mint.MarkTypeEmitted(desc.TypeName()) {
			desc.WriteTypeStruct(pe.out)
		}
	}

	pe.out.WriteString("\n")
}

func (pe *programEmitter) emitWrappers() {
	pe.out.WriteString(`
    static inline bool regex_wrapper(const std::string& pattern, const std::string& text) {
        try {
            return std::regex_match(text, std::regex(pattern));
        } catch (...) {
            std::cerr << "warning: wrong pattern provided for match(\"" << pattern << "\",\"" << text << "\").\n";
            return false;
        }
    }
    static inline std::string substr_wrapper(const std::string& str, std::size_t idx, std::size_t len) {
        try {
            return str.substr(idx, len);
        } catch (...) {
            std::cerr << "warning: wrong index position provided by substr(\"" << str << "\"," << idx << "," << len << ") functor.\n";
            return "";
        }
    }
    static inline RamDomain wrapper_tonumber(const std::string& str) {
        try {
            return static_cast<RamDomain>(std::stol(str));
        } catch (...) {
            std::cerr << "error: wrong string provided by to_number(\"" << str << "\")\n";
            raise(SIGFPE);
            return 0;
        }
    }
`)
}

func (pe *programEmitter) emitSymbolTableInit() {
	pe.out.WriteString("    SymbolTable symTable;\n")
	pe.out.WriteString("    RecordTable recordTable;\n")

	if pe.needsCounter {
		pe.out.WriteString("    std::atomic<RamDomain> ctr{0};\n")
	}

	if pe.needsIter {
		pe.out.WriteString("    std::atomic<std::size_t> iter{0};\n")
	}
}

func (pe *programEmitter) emitCounterArrays() {
	if !pe.s.Config.ProfilingEnabled() {
		return
	}

	fmt.Fprintf(pe.out, "    std::size_t freqs[%d]{};\n", pe.s.mint.FreqCount())
	fmt.Fprintf(pe.out, "    std::size_t reads[%d]{};\n", pe.s.mint.ReadCount())
}

func (pe *programEmitter) emitRelationFields() {
	for _, rel := range pe.prog.Relations {
		desc := pe.s.Types.Relation(rel, pe.s.Index.Indexes(rel), pe.s.Config.WithProvenance())
		relID := pe.s.mint.RelationHostID(rel)
		fmt.Fprintf(pe.out, "    Own<%s> %s = mk<%s>();\n", desc.TypeName(), relID, desc.TypeName())

		if rel.Temporary {
			continue
		}

		fmt.Fprintf(pe.out, "    souffle::RelationWrapper<%s> wrapper_%s;\n", desc.TypeName(), relID)
	}
}

func (pe *programEmitter) emitConstructor(classID string) {
	fmt.Fprintf(pe.out, "public:\n    %s() {\n", classID)

	for _, s := range pe.prog.Symbols.Strings() {
		fmt.Fprintf(pe.out, "        symTable.insert(%q);\n", s)
	}

	for _, rel := range pe.prog.Relations {
		if rel.Temporary {
			continue
		}

		relID := pe.s.mint.RelationHostID(rel)
		fmt.Fprintf(pe.out, "        addRelation(%q, wrapper_%s, %v, %v);\n", rel.Name, relID, rel.Input, rel.Output)
	}

	if pe.s.Config.ProfilingEnabled() {
		fmt.Fprintf(pe.out, "        ProfileEventSingleton::instance().setOutputFile(%q);\n", pe.s.Config.Profile)
	}

	pe.out.WriteString("    }\n")
}

func (pe *programEmitter) emitRunFunction() {
	pe.out.WriteString(`
    void runFunction(std::string inputDirectory, std::string outputDirectory, bool performIO) {
        SignalHandler::instance()->set();
`)

	if pe.needsCounter {
		pe.out.WriteString("        ctr = 0;\n")
	}

	if pe.needsIter {
		pe.out.WriteString("        iter = 0;\n")
	}

	if pe.s.Config.Jobs > 0 {
		fmt.Fprintf(pe.out, "        this->numThreads(%d);\n", pe.s.Config.Jobs)
	}

	if pe.s.Config.ProfilingEnabled() {
		pe.out.WriteString("        ProfileEventSingleton::instance().startTimer();\n")
	}

	pe.emitStatement(pe.out, pe.prog.Main)

	if pe.s.Config.ProfilingEnabled() {
		pe.out.WriteString("        ProfileEventSingleton::instance().stopTimer();\n")
	}

	pe.out.WriteString("        SignalHandler::instance()->reset();\n    }\n")
}

func (pe *programEmitter) emitEntryPoints() {
	pe.out.WriteString(`
    void run() override { runFunction("", "", false); }
    void runAll(std::string inputDirectory = "", std::string outputDirectory = "") override {
        runFunction(inputDirectory, outputDirectory, true);
    }
    void printAll(std::string outputDirectory = "") override {}
    void loadAll(std::string inputDirectory = "") override {}
    void dumpInputs() override {}
    void dumpOutputs() override {}
    SymbolTable& getSymbolTable() override { return symTable; }
`)

	if pe.s.Config.LiveProfile {
		pe.out.WriteString(`
    void runAllWithLiveProfile(std::string inputDirectory = "", std::string outputDirectory = "") {
        std::thread profiler([]() { profile::Tui().runProf(); });
        runFunction(inputDirectory, outputDirectory, true);
        profiler.join();
    }
`)
	}
}

func (pe *programEmitter) emitDumpFreqs() {
	pe.out.WriteString("\n    void dumpFreqs() {\n")

	for i := 0; i < pe.s.mint.FreqCount(); i++ {
		fmt.Fprintf(pe.out, "        ProfileEventSingleton::instance().makeQuantityEvent(\"@frequency-atom;\", freqs[%d], %d);\n", i, i)
	}

	for i := 0; i < pe.s.mint.ReadCount(); i++ {
		fmt.Fprintf(pe.out, "        ProfileEventSingleton::instance().makeQuantityEvent(\"@relation-reads;\", reads[%d], %d);\n", i, i)
	}

	pe.out.WriteString("    }\n")
}

func (pe *programEmitter) emitSubroutines() {
	pe.out.WriteString("\n    std::mutex subroutineReturnMutex;\n")
	pe.out.WriteString("    void executeSubroutine(std::string name, const std::vector<RamDomain>& args, std::vector<RamDomain>& ret) override {\n")

	for i, name := range pe.prog.SubroutineOrder {
		if i > 0 {
			pe.out.WriteString(" else ")
		}

		fmt.Fprintf(pe.out, "if (name == %q) { subproof_%d(args, ret); }", name, i)
	}

	pe.out.WriteString("\n    }\n")

	for i, name := range pe.prog.SubroutineOrder {
		fmt.Fprintf(pe.out, "\n    void subproof_%d(const std::vector<RamDomain>& args, std::vector<RamDomain>& ret) {\n", i)
		pe.emitStatement(pe.out, pe.prog.Subroutines[name])
		pe.out.WriteString("    }\n")
	}
}

func (pe *programEmitter) emitFactoryHooks(classID string) {
	fmt.Fprintf(pe.out, "\nSouffleProgram* newInstance_%s() { return new %s; }\n", classID, classID)
	fmt.Fprintf(pe.out, "SymbolTable* getST_%s(SouffleProgram* p) { return &reinterpret_cast<%s*>(p)->getSymbolTable(); }\n", classID, classID)
}

func (pe *programEmitter) emitMain(classID string) {
	pe.out.WriteString(`
int main(int argc, char** argv) {
    souffle::CmdOptions opt(argv[0]);
    if (!opt.parse(argc, argv)) return 1;
`)
	fmt.Fprintf(pe.out, "    %s obj;\n", classID)

	if pe.s.Config.Jobs > 0 {
		fmt.Fprintf(pe.out, "    obj.numThreads(%d);\n", pe.s.Config.Jobs)
	}

	if pe.s.Config.LiveProfile {
		pe.out.WriteString("    obj.runAllWithLiveProfile(opt.getInputFileDir(), opt.getOutputFileDir());\n")
	} else {
		pe.out.WriteString("    obj.runAll(opt.getInputFileDir(), opt.getOutputFileDir());\n")
	}

	switch pe.s.Config.Provenance {
	case "explain":
		pe.out.WriteString("    explain(obj, false);\n")
	case "subtreeHeights":
		pe.out.WriteString("    explain(obj, true);\n")
	case "explore":
		pe.out.WriteString("    explore(obj);\n")
	}

	pe.out.WriteString("    return 0;\n}\n")
}
